package domain

import "time"

// Embedding is a fixed-length vector representation of an item's text content.
// At most one live embedding exists per (item, model); the composite unique
// index makes concurrent regeneration attempts a storage-level no-op.
// Dimensions always equals len(Vector) and matches the generating model's
// declared dimensionality.
type Embedding struct {
	ID         string      `gorm:"type:text;primaryKey" json:"id"`
	ItemID     string      `gorm:"type:text;not null;uniqueIndex:idx_embeddings_item_model" json:"item_id"`
	Model      string      `gorm:"type:text;not null;uniqueIndex:idx_embeddings_item_model" json:"model"`
	Vector     FloatVector `gorm:"type:text;not null" json:"vector"`
	Dimensions int         `gorm:"not null" json:"dimensions"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName returns the database table name for Embedding.
func (Embedding) TableName() string {
	return "embeddings"
}
