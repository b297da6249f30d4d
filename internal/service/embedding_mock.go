package service

import (
	"context"
	"crypto/sha256"

	"github.com/a-s-adam/streamlink/internal/logger"
)

// MockEmbedder derives vectors deterministically from a SHA-256 digest of
// the input text: digest bytes are cycled to the target dimensionality and
// mapped into [-1, 1]. Identical text always yields identical vectors, and
// distinct texts almost surely differ, which keeps similarity rankings
// stable without any embedding provider.
type MockEmbedder struct {
	dimensions int
}

func NewMockEmbedder(dimensions int) *MockEmbedder {
	return &MockEmbedder{dimensions: dimensions}
}

func (e *MockEmbedder) ModelName() string {
	return "mock-sha256"
}

func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))

	vector := make([]float32, e.dimensions)
	for i := range vector {
		b := digest[i%len(digest)]
		vector[i] = float32(b)/255*2 - 1
	}
	return vector, nil
}

func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// FallbackEmbedder tries a primary Embedder and degrades to the
// deterministic mock when the primary fails, so ingestion pipelines keep
// moving through provider outages. The fallback vector carries the
// primary's model name: a later regeneration with a healthy provider is a
// deliberate operator action, not an automatic upgrade.
type FallbackEmbedder struct {
	primary Embedder
	mock    *MockEmbedder
}

func NewFallbackEmbedder(primary Embedder) *FallbackEmbedder {
	return &FallbackEmbedder{
		primary: primary,
		mock:    NewMockEmbedder(primary.Dimensions()),
	}
}

func (e *FallbackEmbedder) ModelName() string {
	return e.primary.ModelName()
}

func (e *FallbackEmbedder) Dimensions() int {
	return e.primary.Dimensions()
}

func (e *FallbackEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.primary.Embed(ctx, text)
	if err == nil {
		return vector, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	logger.CtxWarn(ctx, "embedding provider failed, using deterministic fallback: %v", err)
	return e.mock.Embed(ctx, text)
}

func (e *FallbackEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.primary.EmbedBatch(ctx, texts)
	if err == nil {
		return vectors, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	logger.CtxWarn(ctx, "embedding provider failed, using deterministic fallback: %v", err)
	return e.mock.EmbedBatch(ctx, texts)
}
