package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/logger"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/vectormath"
)

// RecommendResult summarizes one recommendation refresh.
type RecommendResult struct {
	Status          string `json:"status"`
	Recommendations int    `json:"recommendations"`
}

const (
	recommendStatusCompleted    = "completed"
	recommendStatusNoData       = "no_data"
	recommendStatusNoEmbeddings = "no_embeddings"
	recommendStatusNoCandidates = "no_candidates"

	recommendReason = "Based on your recent viewing history"
)

// RecommendService refreshes a user's recommendation set from the centroid
// of their recently watched items' embeddings. All vector loads are pinned
// to one model, so centroid and candidates always share a dimensionality
// even when embeddings from a retired provider still sit in the store.
type RecommendService struct {
	events          *repository.EventRepository
	embeddings      *repository.EmbeddingRepository
	recommendations *repository.RecommendationRepository
	model           string
	windowDays      int
	topN            int
}

func NewRecommendService(
	events *repository.EventRepository,
	embeddings *repository.EmbeddingRepository,
	recommendations *repository.RecommendationRepository,
	model string,
	windowDays, topN int,
) *RecommendService {
	if windowDays < 1 {
		windowDays = 30
	}
	if topN < 1 {
		topN = 20
	}
	return &RecommendService{
		events:          events,
		embeddings:      embeddings,
		recommendations: recommendations,
		model:           model,
		windowDays:      windowDays,
		topN:            topN,
	}
}

// RefreshUserRecommendations recomputes and atomically replaces the user's
// recommendation set. The terminal no-data outcomes return without touching
// the existing set, so a stale set outlives a failed refresh.
func (s *RecommendService) RefreshUserRecommendations(ctx context.Context, userID string, progress jobs.Progress) (*RecommendResult, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.windowDays)

	watchedIDs, err := s.events.WatchedItemIDs(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load watch history for user %s: %w", userID, err)
	}
	if len(watchedIDs) == 0 {
		return &RecommendResult{Status: recommendStatusNoData}, nil
	}
	if progress != nil {
		progress(20)
	}

	watchedEmbeddings, err := s.embeddings.ListByItemIDs(ctx, watchedIDs, s.model)
	if err != nil {
		return nil, fmt.Errorf("load watched embeddings: %w", err)
	}
	if len(watchedEmbeddings) == 0 {
		return &RecommendResult{Status: recommendStatusNoEmbeddings}, nil
	}

	vectors := make([][]float32, len(watchedEmbeddings))
	for i, emb := range watchedEmbeddings {
		vectors[i] = emb.Vector
	}
	centroid := vectormath.Centroid(vectors)
	if progress != nil {
		progress(40)
	}

	candidates, err := s.embeddings.ListExcludingItemIDs(ctx, watchedIDs, s.model)
	if err != nil {
		return nil, fmt.Errorf("load candidate embeddings: %w", err)
	}
	if len(candidates) == 0 {
		return &RecommendResult{Status: recommendStatusNoCandidates}, nil
	}
	if progress != nil {
		progress(60)
	}

	type scored struct {
		itemID string
		score  float64
	}
	ranked := make([]scored, len(candidates))
	for i, candidate := range candidates {
		ranked[i] = scored{
			itemID: candidate.ItemID,
			score:  vectormath.CosineSimilarity(centroid, candidate.Vector),
		}
	}
	// Stable sort keeps candidate insertion order authoritative on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > s.topN {
		ranked = ranked[:s.topN]
	}
	if progress != nil {
		progress(80)
	}

	recs := make([]domain.Recommendation, len(ranked))
	for i, entry := range ranked {
		recs[i] = domain.Recommendation{
			ID:        uuid.NewString(),
			UserID:    userID,
			ItemID:    entry.itemID,
			Score:     entry.score,
			Reason:    recommendReason,
			Algorithm: domain.AlgorithmContentBased,
		}
	}
	if err := s.recommendations.ReplaceForUser(ctx, userID, recs); err != nil {
		return nil, fmt.Errorf("replace recommendations for user %s: %w", userID, err)
	}

	logger.With(logger.Fields{
		"user_id": userID,
		"count":   len(recs),
	}).Info(ctx, "recommendations refreshed")
	return &RecommendResult{Status: recommendStatusCompleted, Recommendations: len(recs)}, nil
}
