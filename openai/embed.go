package openai

import (
	"context"
	"fmt"

	"github.com/fwojciec/askpage"
	"github.com/openai/openai-go/v3"
)

// maxBatch bounds the inputs sent in one embeddings request.
const maxBatch = 512

// Ensure Embedder implements askpage.Embedder at compile time.
var _ askpage.Embedder = (*Embedder)(nil)

// Embedder calls the embeddings endpoint.
type Embedder struct {
	client openai.Client
	model  string
}

// EmbedDocuments embeds texts in batches, preserving input order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))
		vecs, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// EmbedQuery embeds a single query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, askpage.Errorf(askpage.EINTERNAL, "OpenAI returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vecs) {
			return nil, askpage.Errorf(askpage.EINTERNAL, "OpenAI returned embedding index %d out of range", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			v[i] = float32(f)
		}
		vecs[d.Index] = v
	}
	return vecs, nil
}
