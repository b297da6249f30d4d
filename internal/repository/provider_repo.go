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

// ProviderRepository handles data-source provider records.
type ProviderRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new ProviderRepository.
func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// GetByName retrieves a provider by its unique name.
func (r *ProviderRepository) GetByName(ctx context.Context, name string) (*domain.Provider, error) {
	var provider domain.Provider
	if err := r.db.WithContext(ctx).First(&provider, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetOrCreate resolves a provider by name, creating it on first sighting.
// Duplicate-key races resolve to the winning row, same as item upsert.
func (r *ProviderRepository) GetOrCreate(ctx context.Context, name, displayName, description string) (*domain.Provider, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up provider: %w", err)
	}

	now := time.Now().UTC()
	provider := &domain.Provider{
		ID:          uuid.New().String(),
		Name:        name,
		DisplayName: displayName,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = r.db.WithContext(ctx).Create(provider).Error
	if err == nil {
		return provider, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.GetByName(ctx, name)
	}
	return nil, fmt.Errorf("failed to create provider: %w", err)
}
