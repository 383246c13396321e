package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/askpage"
	"google.golang.org/genai"
)

// maxBatch is the largest batch the embeddings endpoint accepts.
const maxBatch = 100

// Embedding task types.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements askpage.Embedder at compile time.
var _ askpage.Embedder = (*Embedder)(nil)

// Embedder calls EmbedContent.
type Embedder struct {
	client *genai.Client
	model  string
}

// EmbedDocuments embeds texts in batches, preserving input order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))
		vecs, err := e.embed(ctx, texts[start:end], taskDocument)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// EmbedQuery embeds a single search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embed(ctx, []string{text}, taskQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, task string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{TaskType: task})
	if err != nil {
		return nil, fmt.Errorf("Gemini embed content: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, askpage.Errorf(askpage.EINTERNAL, "Gemini returned wrong number of embeddings for %d inputs", len(texts))
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		vecs[i] = emb.Values
	}
	return vecs, nil
}
