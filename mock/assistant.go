package mock

import (
	"context"

	"github.com/fwojciec/askpage"
)

var _ askpage.Assistant = (*Assistant)(nil)

// Assistant is a mock implementation of askpage.Assistant.
type Assistant struct {
	RunQueryFn func(ctx context.Context, query string) (string, error)
}

func (a *Assistant) RunQuery(ctx context.Context, query string) (string, error) {
	return a.RunQueryFn(ctx, query)
}
