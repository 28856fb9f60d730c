package embedder

import (
	"fmt"
)

// Embedder interface for generating embeddings
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
	Dimension() int
	ModelInfo() string
}

// HashEmbedder is a deterministic offline embedder used for tests and for
// running the pipeline without an API key. Vectors carry no semantic meaning.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash-based embedder with the given dimension
func NewHashEmbedder(dimension int) *HashEmbedder {
	return &HashEmbedder{dim: dimension}
}

// Embed generates a simple embedding vector from text
func (e *HashEmbedder) Embed(text string) ([]float32, error) {
	vec := make([]float32, e.dim)

	for i, char := range text {
		idx := i % e.dim
		vec[idx] += float32(char) / 1000.0
	}

	l2normalize(vec)

	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts
func (e *HashEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimension returns the embedding dimension
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// ModelInfo returns model information
func (e *HashEmbedder) ModelInfo() string {
	return "hash-embedder-v1"
}
