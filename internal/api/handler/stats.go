package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/repository"
)

// StatsHandler reports pipeline progress: catalog size by enrichment state
// and the jobs currently running.
type StatsHandler struct {
	orchestrator *jobs.Orchestrator
	items        *repository.ItemRepository
	embeddings   *repository.EmbeddingRepository
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(
	orchestrator *jobs.Orchestrator,
	items *repository.ItemRepository,
	embeddings *repository.EmbeddingRepository,
) *StatsHandler {
	return &StatsHandler{
		orchestrator: orchestrator,
		items:        items,
		embeddings:   embeddings,
	}
}

// Overview handles GET /api/v1/jobs/stats/overview.
func (h *StatsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	active, err := h.orchestrator.ListActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list active jobs"})
		return
	}

	totalItems, err := h.items.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count items"})
		return
	}

	byStatus := make(map[string]int64, 3)
	for _, status := range []domain.ItemStatus{
		domain.ItemStatusRaw,
		domain.ItemStatusMetadataEnriched,
		domain.ItemStatusEmbedded,
	} {
		count, err := h.items.CountByStatus(ctx, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count items"})
			return
		}
		byStatus[string(status)] = count
	}

	embeddingCount, err := h.embeddings.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count embeddings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_jobs":     len(active),
		"items_total":     totalItems,
		"items_by_status": byStatus,
		"embeddings":      embeddingCount,
	})
}
