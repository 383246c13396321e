package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/askpage"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ askpage.Index = (*Index)(nil)

// Index implements askpage.Index on top of a SQLite table.
// It only sees chunks of the documents added through it, so a database
// file shared across runs never leaks other pages into search results.
// Chunks with identical content within a document are stored once.
type Index struct {
	db *DB

	mu      sync.RWMutex
	docIDs  []string
	hasDocs map[string]bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewIndex creates a new Index.
func NewIndex(db *DB) *Index {
	return &Index{db: db, hasDocs: make(map[string]bool), Now: time.Now}
}

// Add stores chunks in a single transaction. Chunks without an ID get one.
// Returns ECONFLICT if a chunk ID is already taken.
func (idx *Index) Add(ctx context.Context, chunks []*askpage.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	tx, err := idx.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, content_hash, position, section, anchor, source_url, title, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id, content_hash) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	createdAt := idx.Now().UTC().Format(time.RFC3339)
	for _, c := range chunks {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.Content, hashContent(c.Content), c.Position,
			c.Metadata.Section, c.Metadata.Anchor, c.Metadata.SourceURL, c.Metadata.Title,
			encodeEmbedding(c.Embedding), createdAt,
		); err != nil {
			if errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY) {
				return askpage.Errorf(askpage.ECONFLICT, "chunk %s already exists", c.ID)
			}
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, c := range chunks {
		if !idx.hasDocs[c.DocumentID] {
			idx.hasDocs[c.DocumentID] = true
			idx.docIDs = append(idx.docIDs, c.DocumentID)
		}
	}
	return nil
}

// Search scans the chunks of this index's documents and returns the k most
// similar to embedding.
func (idx *Index) Search(ctx context.Context, embedding []float32, k int) ([]askpage.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, askpage.Errorf(askpage.EINVALID, "query embedding required")
	}
	if k <= 0 {
		return nil, nil
	}

	in, args := idx.documentFilter()
	if len(args) == 0 {
		return nil, nil
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, section, anchor, source_url, title, embedding
		FROM chunks
		WHERE document_id IN (`+in+`)
		ORDER BY rowid ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []askpage.SearchResult
	for rows.Next() {
		var (
			c    askpage.Chunk
			blob []byte
		)
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &c.Position,
			&c.Metadata.Section, &c.Metadata.Anchor, &c.Metadata.SourceURL, &c.Metadata.Title, &blob); err != nil {
			return nil, err
		}
		if c.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		results = append(results, askpage.SearchResult{
			Chunk: &c,
			Score: askpage.CosineSimilarity(embedding, c.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of chunks stored for this index's documents, or 0
// if the count fails.
func (idx *Index) Len() int {
	in, args := idx.documentFilter()
	if len(args) == 0 {
		return 0
	}

	var n int
	if err := idx.db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM chunks WHERE document_id IN ("+in+")", args...,
	).Scan(&n); err != nil {
		return 0
	}
	return n
}

// documentFilter returns placeholders and arguments matching the documents
// added through idx.
func (idx *Index) documentFilter() (string, []any) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	args := make([]any, len(idx.docIDs))
	for i, id := range idx.docIDs {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", "), args
}
