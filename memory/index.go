// Package memory provides an in-memory nearest-neighbor index.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fwojciec/askpage"
)

// Ensure Index implements askpage.Index at compile time.
var _ askpage.Index = (*Index)(nil)

// Index stores chunks in insertion order and searches them exhaustively.
type Index struct {
	mu     sync.RWMutex
	chunks []*askpage.Chunk
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{}
}

// Add stores chunks. It rejects the whole batch if any chunk is invalid.
func (idx *Index) Add(ctx context.Context, chunks []*askpage.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = append(idx.chunks, chunks...)
	return nil
}

// Search returns the k chunks most similar to embedding.
func (idx *Index) Search(ctx context.Context, embedding []float32, k int) ([]askpage.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, askpage.Errorf(askpage.EINVALID, "query embedding required")
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]askpage.SearchResult, 0, len(idx.chunks))
	for _, c := range idx.chunks {
		results = append(results, askpage.SearchResult{
			Chunk: c,
			Score: askpage.CosineSimilarity(embedding, c.Embedding),
		})
	}

	// Stable keeps document order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of stored chunks.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}
