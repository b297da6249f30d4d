package storage

import "github.com/a-s-adam/streamlink/internal/config"

// NewStorage builds the configured ObjectStorage. An empty endpoint selects
// the in-process store, which is enough for local development.
func NewStorage(cfg *config.StorageConfig) (ObjectStorage, error) {
	if cfg.Endpoint == "" {
		return NewMemoryStorage(), nil
	}
	return NewS3Storage(cfg)
}
