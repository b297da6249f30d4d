package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/service"
	"github.com/a-s-adam/streamlink/internal/storage"
)

// maxExportSize caps accepted export uploads at 50 MiB.
const maxExportSize = 50 << 20

// IngestHandler accepts viewing-history exports. The raw payload is archived
// to object storage and a background job ingests it by storage key, so the
// HTTP request returns as soon as the upload lands.
type IngestHandler struct {
	orchestrator *jobs.Orchestrator
	store        storage.ObjectStorage
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(orchestrator *jobs.Orchestrator, store storage.ObjectStorage) *IngestHandler {
	return &IngestHandler{
		orchestrator: orchestrator,
		store:        store,
	}
}

// IngestNetflix handles POST /api/v1/ingest/netflix.
// Accepts the Netflix viewing-activity CSV as a multipart "file" field or as
// the raw request body.
func (h *IngestHandler) IngestNetflix(c *gin.Context) {
	h.ingest(c, service.TaskIngestCSVBatch, "netflix", "text/csv")
}

// IngestYouTube handles POST /api/v1/ingest/youtube.
// Accepts the Takeout watch-history JSON.
func (h *IngestHandler) IngestYouTube(c *gin.Context) {
	h.ingest(c, service.TaskIngestHistoryBatch, "youtube", "application/json")
}

func (h *IngestHandler) ingest(c *gin.Context, task, kind, contentType string) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.PostForm("user_id")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	payload, err := h.readExport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "export payload is empty"})
		return
	}

	// Content-addressed key: re-uploading the same export reuses the object.
	digest := sha256.Sum256(payload)
	key := fmt.Sprintf("exports/%s/%s/%s", kind, time.Now().UTC().Format("2006/01/02"), hex.EncodeToString(digest[:16]))

	ctx := c.Request.Context()
	if err := h.store.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload)), contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive export"})
		return
	}

	jobID, err := h.orchestrator.Submit(ctx, task, service.IngestArgs{
		UserID:     userID,
		StorageKey: key,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit ingestion job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":      jobID,
		"storage_key": key,
		"status":      string(jobs.StatePending),
	})
}

// readExport pulls the payload from a multipart "file" field when present,
// falling back to the raw body.
func (h *IngestHandler) readExport(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxExportSize {
			return nil, fmt.Errorf("export exceeds %d bytes", maxExportSize)
		}
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxExportSize))
	}

	return io.ReadAll(io.LimitReader(c.Request.Body, maxExportSize))
}
