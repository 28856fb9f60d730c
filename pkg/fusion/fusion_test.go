package fusion

import (
	"testing"

	"github.com/frodel/windowrag/pkg/windowrag"
)

func testChunks() []windowrag.Chunk {
	return []windowrag.Chunk{
		{Path: "animals.md", Index: 0, Text: "The walrus is a large marine mammal with tusks."},
		{Path: "animals.md", Index: 1, Text: "Penguins are flightless birds of the southern hemisphere."},
		{Path: "plants.md", Index: 0, Text: "The oak tree grows slowly and lives for centuries."},
	}
}

func TestKeyword(t *testing.T) {
	ix, err := NewIndex(testChunks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ix.Close()

	results, err := ix.Keyword("walrus tusks", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one keyword hit")
	}
	if results[0].Chunk.Path != "animals.md" || results[0].Chunk.Index != 0 {
		t.Errorf("expected the walrus chunk first, got %s[%d]", results[0].Chunk.Path, results[0].Chunk.Index)
	}
}

func TestKeyword_NoMatch(t *testing.T) {
	ix, err := NewIndex(testChunks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ix.Close()

	results, err := ix.Keyword("zeppelin", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no hits, got %d", len(results))
	}
}

func TestReciprocalRankFusion(t *testing.T) {
	a := windowrag.Chunk{Path: "doc.md", Index: 0, Text: "a"}
	b := windowrag.Chunk{Path: "doc.md", Index: 1, Text: "b"}
	c := windowrag.Chunk{Path: "doc.md", Index: 2, Text: "c"}

	// b appears in both rankings; a and c in one each.
	vector := []windowrag.SearchResult{{Chunk: a, Score: 0.9}, {Chunk: b, Score: 0.8}}
	keyword := []windowrag.SearchResult{{Chunk: b, Score: 12.5}, {Chunk: c, Score: 3.1}}

	fused := ReciprocalRankFusion([][]windowrag.SearchResult{vector, keyword})

	if len(fused) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(fused))
	}
	if fused[0].Chunk != b {
		t.Errorf("expected the chunk present in both rankings first, got %+v", fused[0].Chunk)
	}
	for i := 1; i < len(fused); i++ {
		if fused[i].Score > fused[i-1].Score {
			t.Errorf("fused results not sorted by descending score")
		}
	}
}

func TestReciprocalRankFusion_Deterministic(t *testing.T) {
	a := windowrag.Chunk{Path: "doc.md", Index: 0, Text: "a"}
	b := windowrag.Chunk{Path: "doc.md", Index: 1, Text: "b"}

	// Same rank in separate rankings: scores tie, order falls back to identity.
	first := ReciprocalRankFusion([][]windowrag.SearchResult{
		{{Chunk: a, Score: 1}},
		{{Chunk: b, Score: 1}},
	})
	second := ReciprocalRankFusion([][]windowrag.SearchResult{
		{{Chunk: b, Score: 1}},
		{{Chunk: a, Score: 1}},
	})

	if len(first) != 2 || len(second) != 2 {
		t.Fatal("expected 2 results from each fusion")
	}
	if first[0].Chunk != second[0].Chunk {
		t.Errorf("tie-break is not deterministic")
	}
}

func TestFusedSearch(t *testing.T) {
	chunks := testChunks()

	// Hand-built embeddings: the query vector points at the penguin chunk
	// while the keyword query matches the walrus chunk.
	store := windowrag.NewStore(&windowrag.EmbeddingData{
		Chunks: chunks,
		Embeddings: [][]float32{
			{1, 0},
			{0, 1},
			{0.5, 0.5},
		},
		Dimension: 2,
	})

	ix, err := NewIndex(chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ix.Close()

	results, err := ix.Search(store, []float32{0, 1}, "walrus tusks", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected fused results")
	}

	found := map[string]bool{}
	for _, r := range results {
		found[r.Chunk.Text] = true
	}
	if !found[chunks[0].Text] {
		t.Error("expected the keyword match to surface in fused results")
	}
	if !found[chunks[1].Text] {
		t.Error("expected the vector match to surface in fused results")
	}
}
