package domain

import "time"

// Well-known provider names.
const (
	ProviderNetflix = "NETFLIX"
	ProviderYouTube = "YOUTUBE"
)

// Provider represents a viewing-history data source (Netflix, YouTube, ...).
// Rows are get-or-created lazily on first ingestion for a given source.
type Provider struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex:idx_providers_name" json:"name"`
	DisplayName string    `gorm:"type:text;not null" json:"display_name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Provider.
func (Provider) TableName() string {
	return "providers"
}
