package domain

import "time"

// EventType represents the kind of user interaction recorded.
type EventType string

const (
	EventTypeWatched  EventType = "WATCHED"
	EventTypeLiked    EventType = "LIKED"
	EventTypeDisliked EventType = "DISLIKED"
)

// Event is an immutable record of a user interaction with an item.
// Rows are append-only: created once per ingested record and never mutated.
// The Raw payload keeps the original source record for audit.
type Event struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	UserID     string    `gorm:"type:text;not null;index:idx_events_user" json:"user_id"`
	ItemID     string    `gorm:"type:text;not null;index:idx_events_item" json:"item_id"`
	ProviderID string    `gorm:"type:text;not null;index:idx_events_provider" json:"provider_id"`
	EventType  EventType `gorm:"type:text;not null;index:idx_events_type" json:"event_type"`
	OccurredAt time.Time `gorm:"not null;index:idx_events_occurred" json:"occurred_at"`
	Raw        JSONMap   `gorm:"type:text" json:"raw,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string {
	return "events"
}
