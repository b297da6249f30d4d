package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/a-s-adam/streamlink/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ItemHandler serves catalog items.
type ItemHandler struct {
	items *repository.ItemRepository
}

// NewItemHandler creates a new item handler.
func NewItemHandler(items *repository.ItemRepository) *ItemHandler {
	return &ItemHandler{items: items}
}

// ListItems handles GET /api/v1/items.
// Supports source and type filters plus limit/offset pagination.
func (h *ItemHandler) ListItems(c *gin.Context) {
	limit := parsePositiveInt(c.Query("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := parsePositiveInt(c.Query("offset"), 0)

	items, err := h.items.List(
		c.Request.Context(),
		c.Query("source"),
		domain.ItemType(c.Query("type")),
		limit,
		offset,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}

	total, err := h.items.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"count":  len(items),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetItem handles GET /api/v1/items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.items.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func parsePositiveInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
