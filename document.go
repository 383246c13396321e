package askpage

import (
	"context"
	"time"
)

// Document represents the content of a loaded web page.
type Document struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"sourceUrl"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // Markdown
	Tokens    int       `json:"tokens,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if isBlank(d.Content) {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// Loader turns a URL into documents.
type Loader interface {
	// Load fetches and parses the page at url.
	// A page without usable content yields an empty slice, not an error.
	Load(ctx context.Context, url string) ([]*Document, error)
}
