package service

import (
	"context"
	"fmt"

	"github.com/a-s-adam/streamlink/internal/config"
)

// An Embedder turns item text into a fixed-length vector. Every returned
// vector has exactly Dimensions elements. EmbedBatch preserves input order
// and returns one vector per text.
type Embedder interface {
	ModelName() string
	Dimensions() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewEmbedder builds the configured embedding provider.
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(cfg), nil
	case "ollama":
		return NewOllamaEmbedder(cfg), nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
