package windowrag

// Store is the in-memory retrieval index: every chunk with its embedding,
// plus a per-document positional table so neighbor lookups are O(1) instead
// of a scan over the whole corpus. A Store is built once per index file and
// never mutated afterwards.
type Store struct {
	chunks     []Chunk
	embeddings [][]float32
	dimension  int
	overlap    int
	byDoc      map[string][]int // path -> slot i holds the position of chunk with Index i
}

// NewStore builds a Store from decoded embedding data.
func NewStore(data *EmbeddingData) *Store {
	s := &Store{
		chunks:     data.Chunks,
		embeddings: data.Embeddings,
		dimension:  data.Dimension,
		overlap:    data.ChunkOverlap,
		byDoc:      make(map[string][]int),
	}

	for pos, c := range data.Chunks {
		doc := s.byDoc[c.Path]
		for len(doc) <= c.Index {
			doc = append(doc, -1)
		}
		doc[c.Index] = pos
		s.byDoc[c.Path] = doc
	}

	return s
}

// Len returns the total number of chunks across all documents.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Chunks returns all chunks in storage order.
func (s *Store) Chunks() []Chunk {
	return s.chunks
}

// Overlap returns the split overlap (in runes) recorded at ingestion.
func (s *Store) Overlap() int {
	return s.overlap
}

// DocLen returns the number of chunks in a single document.
func (s *Store) DocLen(path string) int {
	return len(s.byDoc[path])
}

// Lookup returns the chunk at the given index within a document. The second
// return value is false when the index is out of range; callers treat that
// as "stop expanding in this direction", not as an error.
func (s *Store) Lookup(path string, index int) (Chunk, bool) {
	doc, ok := s.byDoc[path]
	if !ok || index < 0 || index >= len(doc) || doc[index] < 0 {
		return Chunk{}, false
	}
	return s.chunks[doc[index]], true
}

// Window returns the stitched text of the chunks in
// [center-neighbors, center+neighbors], clipped to the document's bounds.
// At a document boundary the window is simply asymmetric. With neighbors=0
// the result is exactly the center chunk's text.
func (s *Store) Window(path string, center, neighbors int) string {
	if neighbors < 0 {
		neighbors = 0
	}

	var window []Chunk
	for i := center - neighbors; i <= center+neighbors; i++ {
		if c, ok := s.Lookup(path, i); ok {
			window = append(window, c)
		}
	}

	return Stitch(window, s.overlap)
}

// Stitch concatenates chunks in ascending index order, trimming the overlap
// region so the result reads as contiguous source text. Before each append
// the accumulated tail is cut by exactly overlap runes. The trim only
// applies between index-adjacent chunks: chunks separated by a gap share no
// text, so trimming there would eat real content.
func Stitch(chunks []Chunk, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}

	acc := []rune(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		if overlap > 0 && chunks[i].Index == chunks[i-1].Index+1 && len(acc) >= overlap {
			acc = acc[:len(acc)-overlap]
		}
		acc = append(acc, []rune(chunks[i].Text)...)
	}

	return string(acc)
}
