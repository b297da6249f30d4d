package repository

import (
	"context"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository handles the append-only event log.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append inserts a new event. Events are immutable; there is no update path.
func (r *EventRepository) Append(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// WatchedItemIDs returns the distinct item IDs the user has WATCHED events
// for since the cutoff. Used to build the recency window for recommendations.
func (r *EventRepository) WatchedItemIDs(ctx context.Context, userID string, since time.Time) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&domain.Event{}).
		Where("user_id = ? AND event_type = ? AND occurred_at >= ?", userID, domain.EventTypeWatched, since).
		Distinct("item_id").
		Pluck("item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByUser retrieves a user's events, most recent first.
func (r *EventRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Event, error) {
	var events []domain.Event
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CountByUser returns the number of events recorded for a user.
func (r *EventRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Event{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
