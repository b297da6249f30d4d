package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository handles catalog item data operations.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetByID retrieves an item by its ID.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIdentity retrieves an item by its (source, title, year) dedup key.
func (r *ItemRepository) GetByIdentity(ctx context.Context, source, title string, year int) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).
		First(&item, "source = ? AND title = ? AND year = ?", source, title, year).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetOrCreate resolves the (source, title, year) identity to the canonical
// item, inserting a new RAW row when none exists. The returned bool is true
// when this call created the row.
//
// The lookup-then-insert is racy under concurrent ingestion; the unique index
// on (source, title, year) is the authoritative guard. A loser of that race
// gets gorm.ErrDuplicatedKey and resolves it by re-querying the winner.
func (r *ItemRepository) GetOrCreate(ctx context.Context, item *domain.Item) (*domain.Item, bool, error) {
	existing, err := r.GetByIdentity(ctx, item.Source, item.Title, item.Year)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up item: %w", err)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = domain.ItemStatusRaw
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	err = r.db.WithContext(ctx).Create(item).Error
	if err == nil {
		return item, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		winner, lookupErr := r.GetByIdentity(ctx, item.Source, item.Title, item.Year)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("failed to resolve duplicate item: %w", lookupErr)
		}
		return winner, false, nil
	}
	return nil, false, fmt.Errorf("failed to create item: %w", err)
}

// Update saves an existing item record.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// List retrieves items with optional source and type filters, newest first.
func (r *ItemRepository) List(ctx context.Context, source string, itemType domain.ItemType, limit, offset int) ([]domain.Item, error) {
	var items []domain.Item
	query := r.db.WithContext(ctx).Model(&domain.Item{})
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if itemType != "" {
		query = query.Where("type = ?", itemType)
	}
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the total number of items.
func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts items in a given enrichment state.
func (r *ItemRepository) CountByStatus(ctx context.Context, status domain.ItemStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
