package embedder

import (
	"math"
	"testing"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(8)

	first, err := e.Embed("the quick brown fox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Embed("the quick brown fox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("embedding differs between runs at %d", i)
		}
	}
}

func TestHashEmbedder_Dimension(t *testing.T) {
	e := NewHashEmbedder(16)

	if e.Dimension() != 16 {
		t.Errorf("expected dimension 16, got %d", e.Dimension())
	}

	vec, err := e.Embed("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 16 {
		t.Errorf("expected vector of length 16, got %d", len(vec))
	}
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(8)

	vec, err := e.Embed("normalize me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
		t.Errorf("expected unit-length vector, got norm %f", math.Sqrt(sum))
	}
}

func TestHashEmbedder_BatchOrder(t *testing.T) {
	e := NewHashEmbedder(8)
	texts := []string{"one", "two", "three"}

	batch, err := e.EmbedBatch(texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != len(texts) {
		t.Fatalf("expected %d embeddings, got %d", len(texts), len(batch))
	}

	for i, text := range texts {
		single, err := e.Embed(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch result %d does not match single embedding", i)
			}
		}
	}
}
