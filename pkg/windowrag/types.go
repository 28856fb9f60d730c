package windowrag

// Chunk represents one fixed-size window of a source document
type Chunk struct {
	Path  string // Document path relative to the ingest root
	Index int    // 0-based position within the document
	Text  string // The window's text content
}

// EmbeddingData holds all pre-computed embeddings and their associated chunks.
// ChunkSize and ChunkOverlap record the split geometry (in runes) so that
// context windows can be restitched without duplicated overlap regions.
type EmbeddingData struct {
	Chunks       []Chunk     // Document chunks
	Embeddings   [][]float32 // Corresponding embeddings (same order as Chunks)
	ModelInfo    string      // Model name/version used
	Dimension    int         // Embedding vector dimension
	ChunkSize    int         // Split window size used at ingestion
	ChunkOverlap int         // Split overlap used at ingestion
}

// SearchResult represents a single search result with score
type SearchResult struct {
	Chunk Chunk
	Score float32
}
