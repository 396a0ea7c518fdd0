// ABOUTME: Cosine similarity over embedding vectors
// ABOUTME: Accumulates in float64 to keep 1536-dim sums stable
package retrieval

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|) in [-1, 1]; higher is more
// similar. Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
