package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a-s-adam/streamlink/internal/jobs"
)

// JobHandler exposes the background job lifecycle over HTTP.
type JobHandler struct {
	orchestrator *jobs.Orchestrator
}

// NewJobHandler creates a new job handler.
func NewJobHandler(orchestrator *jobs.Orchestrator) *JobHandler {
	return &JobHandler{orchestrator: orchestrator}
}

// GetJob handles GET /api/v1/jobs/:id.
// Expired records return 410: the job ran, but its result is gone.
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.orchestrator.Status(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusGone, gin.H{"error": "job not found or result expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListActiveJobs handles GET /api/v1/jobs.
func (h *JobHandler) ListActiveJobs(c *gin.Context) {
	active, err := h.orchestrator.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list active jobs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active": active,
		"count":  len(active),
	})
}

// CancelJob handles DELETE /api/v1/jobs/:id.
// Cancellation is cooperative: the job stops at its next stage boundary.
func (h *JobHandler) CancelJob(c *gin.Context) {
	err := h.orchestrator.Cancel(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusGone, gin.H{"error": "job not found or result expired"})
		return
	}
	if errors.Is(err, jobs.ErrJobTerminal) {
		c.JSON(http.StatusConflict, gin.H{"error": "job already finished"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel job"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancellation requested"})
}

// RetryJob handles POST /api/v1/jobs/:id/retry.
// Retry is resubmission: a fresh job with the same task and arguments.
func (h *JobHandler) RetryJob(c *gin.Context) {
	jobID, err := h.orchestrator.Resubmit(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusGone, gin.H{"error": "job not found or result expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": string(jobs.StatePending),
	})
}
