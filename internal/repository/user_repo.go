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

// UserRepository handles user account records.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return r.db.WithContext(ctx).Create(user).Error
}

// EnsureExists creates a placeholder account for an unseen user ID so that
// ingested events always reference a real row. Account details are filled
// in later by whatever owns sign-up.
func (r *UserRepository) EnsureExists(ctx context.Context, id string) (*domain.User, error) {
	existing, err := r.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &domain.User{
		ID:    id,
		Email: id + "@placeholder.invalid",
	}
	err = r.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.GetByID(ctx, id)
	}
	return nil, fmt.Errorf("failed to create user: %w", err)
}
