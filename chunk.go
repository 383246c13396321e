package askpage

import (
	"context"
)

// Chunk represents a section of a document optimized for embedding and retrieval.
type Chunk struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"documentId"`
	Content    string        `json:"content"`
	Position   int           `json:"position"`
	Embedding  []float32     `json:"embedding,omitempty"`
	Metadata   ChunkMetadata `json:"metadata"`
}

// ChunkMetadata contains contextual information about a chunk.
type ChunkMetadata struct {
	// Heading the chunk was found under, if any, and its URL fragment.
	Section string `json:"section,omitempty"`
	Anchor  string `json:"anchor,omitempty"`

	// Source URL and title for citation.
	SourceURL string `json:"sourceUrl,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.DocumentID == "" {
		return Errorf(EINVALID, "chunk document ID required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if len(c.Embedding) == 0 {
		return Errorf(EINVALID, "chunk embedding required")
	}
	return nil
}

// Index provides nearest-neighbor search over embedded chunks.
type Index interface {
	// Add stores chunks. Every chunk must carry an embedding.
	Add(ctx context.Context, chunks []*Chunk) error

	// Search returns at most k chunks ordered by similarity to embedding,
	// most similar first.
	Search(ctx context.Context, embedding []float32, k int) ([]SearchResult, error)

	// Len returns the number of stored chunks.
	Len() int
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}
