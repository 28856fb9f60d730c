package fusion

import (
	"fmt"
	"sort"

	"github.com/blevesearch/bleve/v2"

	"github.com/frodel/windowrag/pkg/windowrag"
)

// rrfConstant dampens the weight of top ranks in reciprocal rank fusion.
// 60 is the value from the original RRF paper.
const rrfConstant = 60

// Index is an in-memory keyword index over a store's chunks, used as the
// lexical half of fusion retrieval.
type Index struct {
	idx    bleve.Index
	chunks map[string]windowrag.Chunk // docID -> chunk
}

// chunkDoc is the indexed representation of a chunk.
type chunkDoc struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// NewIndex builds a memory-only keyword index over the given chunks.
func NewIndex(chunks []windowrag.Chunk) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("creating keyword index: %w", err)
	}

	byID := make(map[string]windowrag.Chunk, len(chunks))

	batch := idx.NewBatch()
	batchSize := 100

	for i, c := range chunks {
		id := docID(c.Path, c.Index)
		byID[id] = c

		if err := batch.Index(id, chunkDoc{Path: c.Path, Text: c.Text}); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing chunk %s: %w", id, err)
		}

		if (i+1)%batchSize == 0 {
			if err := idx.Batch(batch); err != nil {
				idx.Close()
				return nil, fmt.Errorf("writing index batch: %w", err)
			}
			batch = idx.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return nil, fmt.Errorf("writing final index batch: %w", err)
		}
	}

	return &Index{idx: idx, chunks: byID}, nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

// Keyword runs a lexical match query and returns up to k scored chunks.
func (ix *Index) Keyword(query string, k int) ([]windowrag.SearchResult, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = k

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	results := make([]windowrag.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		c, ok := ix.chunks[hit.ID]
		if !ok {
			continue
		}
		results = append(results, windowrag.SearchResult{
			Chunk: c,
			Score: float32(hit.Score),
		})
	}

	return results, nil
}

// Search fuses the store's vector ranking with this index's keyword ranking.
// Both rankings are taken deeper than topK so a chunk strong in only one of
// them can still surface in the merged list.
func (ix *Index) Search(store *windowrag.Store, queryEmbedding []float32, query string, topK int) ([]windowrag.SearchResult, error) {
	pool := topK * 2
	if pool <= 0 {
		pool = 10
	}

	vector := store.Search(queryEmbedding, pool, 0)

	keyword, err := ix.Keyword(query, pool)
	if err != nil {
		return nil, err
	}

	fused := ReciprocalRankFusion([][]windowrag.SearchResult{vector, keyword})
	if topK > 0 && topK < len(fused) {
		fused = fused[:topK]
	}
	return fused, nil
}

// ReciprocalRankFusion merges ranked result lists: each chunk scores
// 1/(rrfConstant+rank+1) per list it appears in, summed across lists.
// Raw similarity scores are intentionally ignored; only ranks matter, which
// keeps vector and keyword scores on different scales comparable.
func ReciprocalRankFusion(rankings [][]windowrag.SearchResult) []windowrag.SearchResult {
	scores := make(map[string]float32)
	byID := make(map[string]windowrag.Chunk)

	for _, ranking := range rankings {
		for rank, r := range ranking {
			id := docID(r.Chunk.Path, r.Chunk.Index)
			scores[id] += 1.0 / float32(rrfConstant+rank+1)
			byID[id] = r.Chunk
		}
	}

	fused := make([]windowrag.SearchResult, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, windowrag.SearchResult{
			Chunk: byID[id],
			Score: score,
		})
	}

	// Sort by fused score descending, then by identity for a stable order.
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return docID(fused[i].Chunk.Path, fused[i].Chunk.Index) < docID(fused[j].Chunk.Path, fused[j].Chunk.Index)
	})

	return fused
}

func docID(path string, index int) string {
	return fmt.Sprintf("%s#%d", path, index)
}
