package service

import (
	"context"
	"errors"
	"testing"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(64)

	a, err := e.Embed(context.Background(), "The Matrix. movie. Action")
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	b, err := e.Embed(context.Background(), "The Matrix. movie. Action")
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}

	if len(a) != 64 {
		t.Fatalf("len(vector) = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %f != %f", i, a[i], b[i])
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("component %d out of [-1, 1]: %f", i, a[i])
		}
	}
}

func TestMockEmbedderDistinctTexts(t *testing.T) {
	e := NewMockEmbedder(32)

	a, _ := e.Embed(context.Background(), "first title")
	b, _ := e.Embed(context.Background(), "second title")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts produced identical vectors")
	}
}

func TestMockEmbedderBatchMatchesSingle(t *testing.T) {
	e := NewMockEmbedder(32)
	texts := []string{"first title", "second title", "third title"}

	vectors, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch error: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("len(vectors) = %d, want %d", len(vectors), len(texts))
	}
	for i, text := range texts {
		single, _ := e.Embed(context.Background(), text)
		for j := range single {
			if vectors[i][j] != single[j] {
				t.Fatalf("batch vector %d differs from single at %d", i, j)
			}
		}
	}
}

type failingEmbedder struct{ dims int }

func (e *failingEmbedder) ModelName() string { return "primary-model" }
func (e *failingEmbedder) Dimensions() int   { return e.dims }
func (e *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("provider unavailable")
}
func (e *failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("provider unavailable")
}

func TestFallbackEmbedder(t *testing.T) {
	e := NewFallbackEmbedder(&failingEmbedder{dims: 16})

	vector, err := e.Embed(context.Background(), "some title")
	if err != nil {
		t.Fatalf("Embed error after fallback: %v", err)
	}
	if len(vector) != 16 {
		t.Errorf("len(vector) = %d, want primary dimensionality", len(vector))
	}
	if e.ModelName() != "primary-model" {
		t.Errorf("model = %q, want the primary's name", e.ModelName())
	}
}

func TestFallbackEmbedderBatch(t *testing.T) {
	e := NewFallbackEmbedder(&failingEmbedder{dims: 16})
	texts := []string{"one", "two"}

	vectors, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch error after fallback: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("len(vectors) = %d, want 2", len(vectors))
	}
	for i, vector := range vectors {
		if len(vector) != 16 {
			t.Errorf("len(vectors[%d]) = %d, want primary dimensionality", i, len(vector))
		}
	}
}

func TestFallbackEmbedderHonorsCancellation(t *testing.T) {
	e := NewFallbackEmbedder(&failingEmbedder{dims: 16})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Embed(ctx, "some title"); err == nil {
		t.Fatal("Embed on a cancelled context succeeded")
	}
}
