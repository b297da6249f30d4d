package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/service"
)

// RecommendationHandler serves recommendation sets and triggers refreshes.
type RecommendationHandler struct {
	recommendations *repository.RecommendationRepository
	orchestrator    *jobs.Orchestrator
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(
	recommendations *repository.RecommendationRepository,
	orchestrator *jobs.Orchestrator,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		orchestrator:    orchestrator,
	}
}

// GetRecommendations handles GET /api/v1/users/:id/recommendations.
// An empty set is a valid response: either no refresh has run yet or the
// last refresh found nothing to recommend.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID := c.Param("id")

	limit := parsePositiveInt(c.Query("limit"), 0)
	recs, err := h.recommendations.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         userID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

// RefreshRecommendations handles POST /api/v1/users/:id/recommendations/refresh.
func (h *RecommendationHandler) RefreshRecommendations(c *gin.Context) {
	userID := c.Param("id")

	jobID, err := h.orchestrator.Submit(c.Request.Context(), service.TaskRefreshRecommendations, service.RecommendArgs{
		UserID: userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit refresh job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": string(jobs.StatePending),
	})
}
