package repository

import (
	"context"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmbeddingRepository handles stored embedding vectors.
type EmbeddingRepository struct {
	db *gorm.DB
}

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(db *gorm.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db: db}
}

// Create inserts a new embedding row. The unique index on (item_id, model)
// rejects a second live embedding for the same pair; callers treat
// gorm.ErrDuplicatedKey as "already embedded", not as a failure.
func (r *EmbeddingRepository) Create(ctx context.Context, embedding *domain.Embedding) error {
	if embedding.ID == "" {
		embedding.ID = uuid.New().String()
	}
	if embedding.CreatedAt.IsZero() {
		embedding.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(embedding).Error
}

// ExistsForItem reports whether any embedding exists for the item,
// regardless of model. Embeddings are not regenerated once present.
func (r *EmbeddingRepository) ExistsForItem(ctx context.Context, itemID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Embedding{}).
		Where("item_id = ?", itemID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByItemIDs retrieves embeddings for the given items, restricted to
// one model so every returned vector shares a dimensionality.
func (r *EmbeddingRepository) ListByItemIDs(ctx context.Context, itemIDs []string, model string) ([]domain.Embedding, error) {
	if len(itemIDs) == 0 {
		return []domain.Embedding{}, nil
	}
	var embeddings []domain.Embedding
	if err := r.db.WithContext(ctx).
		Where("item_id IN ? AND model = ?", itemIDs, model).
		Find(&embeddings).Error; err != nil {
		return nil, err
	}
	return embeddings, nil
}

// ListExcludingItemIDs retrieves the candidate pool: every embedding of the
// given model whose item is NOT in the given set.
func (r *EmbeddingRepository) ListExcludingItemIDs(ctx context.Context, itemIDs []string, model string) ([]domain.Embedding, error) {
	var embeddings []domain.Embedding
	query := r.db.WithContext(ctx).Model(&domain.Embedding{}).
		Where("model = ?", model)
	if len(itemIDs) > 0 {
		query = query.Where("item_id NOT IN ?", itemIDs)
	}
	if err := query.Order("created_at ASC").Find(&embeddings).Error; err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Count returns the total number of stored embeddings.
func (r *EmbeddingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Embedding{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
