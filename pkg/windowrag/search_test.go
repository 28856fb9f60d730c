package windowrag

import (
	"math"
	"testing"
)

func searchStore() *Store {
	return NewStore(&EmbeddingData{
		Chunks: []Chunk{
			{Path: "doc.md", Index: 0, Text: "alpha"},
			{Path: "doc.md", Index: 1, Text: "beta"},
			{Path: "doc.md", Index: 2, Text: "gamma"},
		},
		Embeddings: [][]float32{
			{1, 0},
			{0, 1},
			{0.8, 0.6},
		},
		Dimension: 2,
	})
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(float64(got)-1) > 1e-6 {
		t.Errorf("identical vectors: expected 1, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 0}); got != 0 {
		t.Errorf("zero vector: expected 0, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("mismatched lengths: expected 0, got %f", got)
	}
}

func TestSearch_Ordering(t *testing.T) {
	store := searchStore()

	results := store.Search([]float32{1, 0}, 0, -1)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Chunk.Text != "alpha" {
		t.Errorf("expected best match 'alpha', got %q", results[0].Chunk.Text)
	}
	if results[1].Chunk.Text != "gamma" {
		t.Errorf("expected second match 'gamma', got %q", results[1].Chunk.Text)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by descending score")
		}
	}
}

func TestSearch_TopK(t *testing.T) {
	store := searchStore()

	results := store.Search([]float32{1, 0}, 2, -1)
	if len(results) != 2 {
		t.Errorf("expected 2 results with topK=2, got %d", len(results))
	}
}

func TestSearch_Threshold(t *testing.T) {
	store := searchStore()

	results := store.Search([]float32{1, 0}, 0, 0.5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	for _, r := range results {
		if r.Score < 0.5 {
			t.Errorf("result below threshold: %f", r.Score)
		}
	}
}

func TestSearch_DimensionMismatch(t *testing.T) {
	store := searchStore()

	if results := store.Search([]float32{1, 0, 0}, 5, 0); results != nil {
		t.Errorf("expected nil for mismatched query dimension, got %d results", len(results))
	}
}
