package windowrag

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors
// Returns a value between -1 and 1, where 1 means identical direction
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// Search performs similarity search over the store
// Returns top-k results sorted by similarity score (highest first)
func (s *Store) Search(queryEmbedding []float32, topK int, threshold float32) []SearchResult {
	if len(queryEmbedding) != s.dimension {
		return nil
	}

	results := make([]SearchResult, 0, len(s.chunks))

	// Compute similarity for all chunks
	for i := range s.chunks {
		score := CosineSimilarity(queryEmbedding, s.embeddings[i])

		// Only include results above threshold
		if score >= threshold {
			results = append(results, SearchResult{
				Chunk: s.chunks[i],
				Score: score,
			})
		}
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	// Return top-k results
	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}

	return results
}
