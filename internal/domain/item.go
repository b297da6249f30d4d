package domain

import "time"

// ItemStatus represents the enrichment state of a catalog item.
// Items progress RAW -> METADATA_ENRICHED -> EMBEDDED; each transition
// is performed by an idempotent background stage.
type ItemStatus string

const (
	ItemStatusRaw              ItemStatus = "RAW"
	ItemStatusMetadataEnriched ItemStatus = "METADATA_ENRICHED"
	ItemStatusEmbedded         ItemStatus = "EMBEDDED"
)

// ItemType classifies a catalog item.
type ItemType string

const (
	ItemTypeMovie   ItemType = "movie"
	ItemTypeTVShow  ItemType = "tv_show"
	ItemTypeVideo   ItemType = "video"
	ItemTypeUnknown ItemType = "unknown"
)

// Item represents a distinct piece of media in the catalog.
// Identity is the (source, title, year) tuple; Year is 0 when unknown so the
// composite unique index stays authoritative for deduplication. Later
// encounters of an equivalent record must resolve to the existing row.
type Item struct {
	ID         string      `gorm:"type:text;primaryKey" json:"id"`
	ExternalID string      `gorm:"type:text;index" json:"external_id,omitempty"`
	Source     string      `gorm:"type:text;not null;uniqueIndex:idx_items_identity" json:"source"`
	Title      string      `gorm:"type:text;not null;uniqueIndex:idx_items_identity" json:"title"`
	Year       int         `gorm:"uniqueIndex:idx_items_identity" json:"year,omitempty"`
	Type       ItemType    `gorm:"type:text;not null;default:unknown" json:"type"`
	PosterURL  string      `gorm:"type:text" json:"poster_url,omitempty"`
	Overview   string      `gorm:"type:text" json:"overview,omitempty"`
	Genres     StringArray `gorm:"type:text" json:"genres"`
	Runtime    int         `json:"runtime,omitempty"`
	TMDBID     string      `gorm:"type:text;index" json:"tmdb_id,omitempty"`
	Status     ItemStatus  `gorm:"type:text;index:idx_items_status;default:RAW" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string {
	return "items"
}
