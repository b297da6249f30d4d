package repository

import (
	"context"
	"time"

	"github.com/a-s-adam/streamlink/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecommendationRepository handles the derived recommendation set.
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// ReplaceForUser atomically swaps the user's recommendation set: all prior
// rows are deleted and the new rows inserted inside a single transaction, so
// a crash mid-refresh can never leave the user recommendation-less.
func (r *RecommendationRepository) ReplaceForUser(ctx context.Context, userID string, recs []domain.Recommendation) error {
	now := time.Now().UTC()
	for i := range recs {
		if recs[i].ID == "" {
			recs[i].ID = uuid.New().String()
		}
		recs[i].UserID = userID
		recs[i].CreatedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Recommendation{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.Create(&recs).Error
	})
}

// ListByUser retrieves the user's current recommendations, best score first.
func (r *RecommendationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Recommendation, error) {
	var recs []domain.Recommendation
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// CountByUser returns the size of the user's current recommendation set.
func (r *RecommendationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Recommendation{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
