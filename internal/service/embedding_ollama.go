package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/a-s-adam/streamlink/internal/config"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaEmbedder calls a local Ollama instance for embeddings.
type OllamaEmbedder struct {
	client     *resty.Client
	model      string
	dimensions int
}

func NewOllamaEmbedder(cfg *config.EmbeddingConfig) *OllamaEmbedder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")

	return &OllamaEmbedder{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

func (e *OllamaEmbedder) ModelName() string {
	return e.model
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := ollamaEmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	}

	var resp ollamaEmbeddingResponse
	httpResp, err := e.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post("/api/embeddings")

	if err != nil {
		return nil, fmt.Errorf("call Ollama embeddings: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if resp.Error != "" {
			return nil, fmt.Errorf("Ollama API error: %s", resp.Error)
		}
		return nil, fmt.Errorf("Ollama API error: status %d", httpResp.StatusCode())
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	if len(resp.Embedding) != e.dimensions {
		return nil, fmt.Errorf("unexpected embedding size: got %d, expected %d", len(resp.Embedding), e.dimensions)
	}
	return resp.Embedding, nil
}

// EmbedBatch embeds each text with its own API call. Ollama's embeddings
// endpoint takes a single prompt per request.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}
