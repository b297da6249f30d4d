package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/logger"
	"github.com/a-s-adam/streamlink/internal/repository"
)

// EnrichResult summarizes one enrichment stage run.
type EnrichResult struct {
	Status string `json:"status"`
	ItemID string `json:"item_id"`
	TMDBID string `json:"tmdb_id,omitempty"`
	Model  string `json:"model,omitempty"`
}

const (
	enrichStatusEnriched  = "enriched"
	enrichStatusSkipped   = "skipped"
	enrichStatusNoResults = "no_results"
	enrichStatusEmbedded  = "embedded"
)

// EnrichService runs the two per-item enrichment stages: metadata lookup
// and embedding generation. Both stages are idempotent; re-running either
// against an already processed item is a cheap no-op.
type EnrichService struct {
	items      *repository.ItemRepository
	embeddings *repository.EmbeddingRepository
	metadata   MetadataProvider
	embedder   Embedder
	dispatcher Dispatcher
}

func NewEnrichService(
	items *repository.ItemRepository,
	embeddings *repository.EmbeddingRepository,
	metadata MetadataProvider,
	embedder Embedder,
	dispatcher Dispatcher,
) *EnrichService {
	return &EnrichService{
		items:      items,
		embeddings: embeddings,
		metadata:   metadata,
		embedder:   embedder,
		dispatcher: dispatcher,
	}
}

// EnrichItemMetadata resolves external metadata for the item and dispatches
// the embedding stage. A lookup with no results is a normal terminal
// outcome for the metadata stage, and the embedding stage still runs on
// whatever text the item has.
func (s *EnrichService) EnrichItemMetadata(ctx context.Context, itemID string, progress jobs.Progress) (*EnrichResult, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", itemID, err)
	}
	if progress != nil {
		progress(10)
	}

	// Already enriched; go straight to the embedding stage.
	if item.TMDBID != "" && item.Overview != "" {
		s.dispatchEmbedding(ctx, item.ID)
		return &EnrichResult{Status: enrichStatusSkipped, ItemID: item.ID, TMDBID: item.TMDBID}, nil
	}

	meta, err := s.metadata.Lookup(ctx, item.Title, item.Year)
	if errors.Is(err, ErrNoResults) {
		logger.CtxInfo(ctx, "no metadata found for %q (%d)", item.Title, item.Year)
		// The lookup ran to completion; the stage is done even empty-handed.
		item.Status = domain.ItemStatusMetadataEnriched
		if err := s.items.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("save item %s after empty lookup: %w", item.ID, err)
		}
		s.dispatchEmbedding(ctx, item.ID)
		return &EnrichResult{Status: enrichStatusNoResults, ItemID: item.ID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("metadata lookup for %q: %w", item.Title, err)
	}
	if progress != nil {
		progress(60)
	}

	item.TMDBID = meta.TMDBID
	item.Overview = meta.Overview
	if meta.PosterURL != "" {
		item.PosterURL = meta.PosterURL
	}
	if len(meta.Genres) > 0 {
		item.Genres = meta.Genres
	}
	if meta.Runtime > 0 {
		item.Runtime = meta.Runtime
	}
	if item.Type == domain.ItemTypeUnknown && meta.Type != "" {
		item.Type = meta.Type
	}
	item.Status = domain.ItemStatusMetadataEnriched

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("save enriched item %s: %w", item.ID, err)
	}
	if progress != nil {
		progress(90)
	}

	s.dispatchEmbedding(ctx, item.ID)
	return &EnrichResult{Status: enrichStatusEnriched, ItemID: item.ID, TMDBID: meta.TMDBID}, nil
}

func (s *EnrichService) dispatchEmbedding(ctx context.Context, itemID string) {
	if _, err := s.dispatcher.Dispatch(ctx, TaskGenerateItemEmbedding, EmbedArgs{ItemID: itemID}); err != nil {
		logger.CtxWarn(ctx, "embedding dispatch failed for item %s: %v", itemID, err)
	}
}

// GenerateItemEmbedding produces the item's vector. An existing embedding
// for any model skips the stage; a concurrent duplicate insert resolves to
// the winner's row.
func (s *EnrichService) GenerateItemEmbedding(ctx context.Context, itemID string, progress jobs.Progress) (*EnrichResult, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", itemID, err)
	}
	if progress != nil {
		progress(10)
	}

	exists, err := s.embeddings.ExistsForItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("check embedding for item %s: %w", item.ID, err)
	}
	if exists {
		return &EnrichResult{Status: enrichStatusSkipped, ItemID: item.ID}, nil
	}

	text := embeddingText(item)
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed item %s: %w", item.ID, err)
	}
	if progress != nil {
		progress(70)
	}

	err = s.embeddings.Create(ctx, &domain.Embedding{
		ID:         uuid.NewString(),
		ItemID:     item.ID,
		Model:      s.embedder.ModelName(),
		Vector:     vector,
		Dimensions: len(vector),
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent run won the race; its vector stands.
		return &EnrichResult{Status: enrichStatusSkipped, ItemID: item.ID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save embedding for item %s: %w", item.ID, err)
	}

	item.Status = domain.ItemStatusEmbedded
	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("mark item %s embedded: %w", item.ID, err)
	}

	return &EnrichResult{
		Status: enrichStatusEmbedded,
		ItemID: item.ID,
		Model:  s.embedder.ModelName(),
	}, nil
}

// embeddingText assembles the text an item is embedded from: title, then
// overview, then genres, joined as sentences. Fields missing before
// enrichment simply drop out, so a raw item embeds from its title alone.
func embeddingText(item *domain.Item) string {
	parts := []string{item.Title}
	if item.Overview != "" {
		parts = append(parts, item.Overview)
	}
	if len(item.Genres) > 0 {
		parts = append(parts, strings.Join(item.Genres, " "))
	}
	return strings.Join(parts, ". ")
}
