package askpage

import "context"

// Assistant answers questions about an indexed page, keeping conversational context.
type Assistant interface {
	// RunQuery answers query. Consecutive calls share conversation history.
	RunQuery(ctx context.Context, query string) (string, error)
}
