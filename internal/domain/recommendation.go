package domain

import "time"

// AlgorithmContentBased tags recommendations produced by centroid similarity
// over the user's recent viewing history.
const AlgorithmContentBased = "content_based"

// Recommendation is derived, disposable data: a scored suggestion of an item
// for a user. The set for a user is fully replaced on each refresh, never
// merged incrementally. Score is cosine similarity in [-1, 1].
type Recommendation struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index:idx_recommendations_user" json:"user_id"`
	ItemID    string    `gorm:"type:text;not null;index:idx_recommendations_item" json:"item_id"`
	Score     float64   `gorm:"not null;index:idx_recommendations_score" json:"score"`
	Reason    string    `gorm:"type:text" json:"reason,omitempty"`
	Algorithm string    `gorm:"type:text;not null;default:content_based" json:"algorithm"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Recommendation.
func (Recommendation) TableName() string {
	return "recommendations"
}
