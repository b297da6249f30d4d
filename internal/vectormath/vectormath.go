// Package vectormath provides the similarity primitives used by the
// recommendation engine. All functions are pure and expect every vector in a
// call to share the same dimensionality; callers filter by model/dimensions
// before invoking.
package vectormath

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|) as a float64 in [-1, 1].
// A zero vector has no direction, so it is defined as maximally dissimilar
// to everything, including itself: if either norm is zero the result is 0.0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Centroid returns the element-wise mean of the given vectors.
// Returns nil for an empty input; callers must guard against it.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dims := len(vectors[0])
	sums := make([]float64, dims)
	for _, v := range vectors {
		for i := range v {
			sums[i] += float64(v[i])
		}
	}
	out := make([]float32, dims)
	n := float64(len(vectors))
	for i := range sums {
		out[i] = float32(sums[i] / n)
	}
	return out
}
