package vectormath

import (
	"math"
	"testing"
)

func TestCosineSimilarityBounds(t *testing.T) {
	testCases := []struct {
		name string
		a    []float32
		b    []float32
	}{
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}},
		{name: "opposite", a: []float32{1, 2, 3}, b: []float32{-1, -2, -3}},
		{name: "mixed signs", a: []float32{0.5, -0.25, 0.75}, b: []float32{-0.1, 0.9, 0.4}},
		{name: "large values", a: []float32{1000, 2000}, b: []float32{3, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if got < -1.0000001 || got > 1.0000001 {
				t.Errorf("similarity out of bounds: got %f", got)
			}
		})
	}
}

func TestCosineSimilaritySelf(t *testing.T) {
	v := []float32{0.3, -0.7, 0.1, 0.9}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("self similarity should be 1.0, got %f", got)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	if got := CosineSimilarity(zero, v); got != 0.0 {
		t.Errorf("zero vector similarity should be 0.0, got %f", got)
	}
	if got := CosineSimilarity(v, zero); got != 0.0 {
		t.Errorf("zero vector similarity should be 0.0, got %f", got)
	}
	if got := CosineSimilarity(zero, zero); got != 0.0 {
		t.Errorf("zero-zero similarity should be 0.0, got %f", got)
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	got := CosineSimilarity(a, b)
	if math.Abs(got-(-1.0)) > 1e-6 {
		t.Errorf("opposite vectors should score -1.0, got %f", got)
	}
}

func TestCentroid(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3},
		{3, 4, 5},
	}
	got := Centroid(vectors)
	want := []float32{2, 3, 4}

	if len(got) != len(want) {
		t.Fatalf("centroid length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("centroid[%d]: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestCentroidSingleVector(t *testing.T) {
	v := []float32{0.1, 0.2, 0.3}
	got := Centroid([][]float32{v})
	for i := range v {
		if math.Abs(float64(got[i]-v[i])) > 1e-6 {
			t.Errorf("centroid of one vector should equal it: index %d got %f want %f", i, got[i], v[i])
		}
	}
}

func TestCentroidEmpty(t *testing.T) {
	if got := Centroid(nil); got != nil {
		t.Errorf("centroid of empty input should be nil, got %v", got)
	}
	if got := Centroid([][]float32{}); got != nil {
		t.Errorf("centroid of empty input should be nil, got %v", got)
	}
}
