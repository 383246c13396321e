package rag

import (
	"context"
	"fmt"

	"github.com/fwojciec/askpage"
)

// IndexDocuments splits docs into chunks, embeds them in one batch and adds
// them to index. It returns the number of chunks the index gained, which is
// lower than the number split when the index drops duplicates.
func IndexDocuments(ctx context.Context, embedder askpage.Embedder, index askpage.Index, docs []*askpage.Document, opts askpage.SplitOptions) (int, error) {
	var chunks []*askpage.Chunk
	for _, doc := range docs {
		chunks = append(chunks, askpage.SplitDocument(doc, opts)...)
	}
	if len(chunks) == 0 {
		return 0, askpage.Errorf(askpage.EINVALID, "documents produced no chunks")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vecs, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return 0, askpage.Errorf(askpage.EINTERNAL, "got %d embeddings for %d chunks", len(vecs), len(chunks))
	}
	for i, c := range chunks {
		c.Embedding = vecs[i]
	}

	before := index.Len()
	if err := index.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("indexing chunks: %w", err)
	}
	return index.Len() - before, nil
}
