// Package service implements the pipelines behind the background tasks:
// export ingestion, metadata enrichment, embedding generation, and
// recommendation refresh. Pipelines are synchronous functions; the jobs
// package runs them and chaining happens through a Dispatcher.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/storage"
)

// Task names are the stable contract between submitters and workers.
const (
	TaskIngestCSVBatch         = "ingest_csv_batch"
	TaskIngestHistoryBatch     = "ingest_history_batch"
	TaskEnrichItemMetadata     = "enrich_item_metadata"
	TaskGenerateItemEmbedding  = "generate_item_embedding"
	TaskRefreshRecommendations = "refresh_user_recommendations"
)

// A Dispatcher submits follow-up tasks. Declared here so pipelines depend
// on the capability, not on the jobs orchestrator.
type Dispatcher interface {
	Dispatch(ctx context.Context, task string, args interface{}) (string, error)
}

// IngestArgs identifies an archived export to ingest for a user.
type IngestArgs struct {
	UserID     string `json:"user_id"`
	StorageKey string `json:"storage_key"`
}

// EnrichArgs identifies the item for a metadata stage run.
type EnrichArgs struct {
	ItemID string `json:"item_id"`
}

// EmbedArgs identifies the item for an embedding stage run.
type EmbedArgs struct {
	ItemID string `json:"item_id"`
}

// RecommendArgs identifies the user whose recommendation set to refresh.
type RecommendArgs struct {
	UserID string `json:"user_id"`
}

// Tasks bundles the pipeline services behind the task registry.
type Tasks struct {
	ingest    *IngestService
	enrich    *EnrichService
	recommend *RecommendService
	store     storage.ObjectStorage
	parsers   *ParserSet
}

func NewTasks(
	ingest *IngestService,
	enrich *EnrichService,
	recommend *RecommendService,
	store storage.ObjectStorage,
) *Tasks {
	return &Tasks{
		ingest:    ingest,
		enrich:    enrich,
		recommend: recommend,
		store:     store,
		parsers:   NewParserSet(),
	}
}

// Register binds every pipeline to its task name.
func (t *Tasks) Register(registry *jobs.Registry) {
	registry.Register(TaskIngestCSVBatch, t.ingestCSVBatch)
	registry.Register(TaskIngestHistoryBatch, t.ingestHistoryBatch)
	registry.Register(TaskEnrichItemMetadata, t.enrichItemMetadata)
	registry.Register(TaskGenerateItemEmbedding, t.generateItemEmbedding)
	registry.Register(TaskRefreshRecommendations, t.refreshRecommendations)
}

func (t *Tasks) ingestCSVBatch(ctx context.Context, raw json.RawMessage, progress jobs.Progress) (interface{}, error) {
	return t.runIngest(ctx, raw, ProviderKindNetflix, progress)
}

func (t *Tasks) ingestHistoryBatch(ctx context.Context, raw json.RawMessage, progress jobs.Progress) (interface{}, error) {
	return t.runIngest(ctx, raw, ProviderKindYouTube, progress)
}

func (t *Tasks) runIngest(ctx context.Context, raw json.RawMessage, kind ProviderKind, progress jobs.Progress) (interface{}, error) {
	var args IngestArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode ingest args: %w", err)
	}
	if args.UserID == "" || args.StorageKey == "" {
		return nil, fmt.Errorf("ingest requires user_id and storage_key")
	}

	body, err := t.store.Download(ctx, args.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("fetch export %s: %w", args.StorageKey, err)
	}
	defer body.Close()
	if progress != nil {
		progress(5)
	}

	records, skipped, providerName, err := t.parsers.Parse(kind, body)
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", args.StorageKey, err)
	}

	result, err := t.ingest.IngestBatch(ctx, args.UserID, providerName, records, skipped, progress)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *Tasks) enrichItemMetadata(ctx context.Context, raw json.RawMessage, progress jobs.Progress) (interface{}, error) {
	var args EnrichArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode enrich args: %w", err)
	}
	if args.ItemID == "" {
		return nil, fmt.Errorf("enrich requires item_id")
	}
	return t.enrich.EnrichItemMetadata(ctx, args.ItemID, progress)
}

func (t *Tasks) generateItemEmbedding(ctx context.Context, raw json.RawMessage, progress jobs.Progress) (interface{}, error) {
	var args EmbedArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode embed args: %w", err)
	}
	if args.ItemID == "" {
		return nil, fmt.Errorf("embedding requires item_id")
	}
	return t.enrich.GenerateItemEmbedding(ctx, args.ItemID, progress)
}

func (t *Tasks) refreshRecommendations(ctx context.Context, raw json.RawMessage, progress jobs.Progress) (interface{}, error) {
	var args RecommendArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode recommend args: %w", err)
	}
	if args.UserID == "" {
		return nil, fmt.Errorf("recommendation refresh requires user_id")
	}
	return t.recommend.RefreshUserRecommendations(ctx, args.UserID, progress)
}
