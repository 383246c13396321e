package mock

import (
	"context"

	"github.com/fwojciec/askpage"
)

var _ askpage.Index = (*Index)(nil)

// Index is a mock implementation of askpage.Index.
type Index struct {
	AddFn    func(ctx context.Context, chunks []*askpage.Chunk) error
	SearchFn func(ctx context.Context, embedding []float32, k int) ([]askpage.SearchResult, error)
	LenFn    func() int
}

func (i *Index) Add(ctx context.Context, chunks []*askpage.Chunk) error {
	return i.AddFn(ctx, chunks)
}

func (i *Index) Search(ctx context.Context, embedding []float32, k int) ([]askpage.SearchResult, error) {
	return i.SearchFn(ctx, embedding, k)
}

func (i *Index) Len() int {
	return i.LenFn()
}
