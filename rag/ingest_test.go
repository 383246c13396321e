package rag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/askpage"
	"github.com/fwojciec/askpage/memory"
	"github.com/fwojciec/askpage/mock"
	"github.com/fwojciec/askpage/rag"
	"github.com/fwojciec/askpage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexDocuments(t *testing.T) {
	t.Parallel()

	doc := &askpage.Document{
		ID:        "doc",
		SourceURL: "https://pt.wikipedia.org/wiki/Intelig%C3%AAncia_artificial",
		Title:     "Inteligência artificial",
		Content:   "# Inteligência artificial\n\nIA é um campo.\n\n## História\n\nO termo surgiu em 1956.",
	}

	t.Run("embeds every chunk and adds it to the index", func(t *testing.T) {
		t.Parallel()

		var embedded []string
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(_ context.Context, texts []string) ([][]float32, error) {
				embedded = texts
				vecs := make([][]float32, len(texts))
				for i := range texts {
					vecs[i] = []float32{float32(i + 1), 1}
				}
				return vecs, nil
			},
		}
		idx := memory.NewIndex()

		n, err := rag.IndexDocuments(context.Background(), embedder, idx, []*askpage.Document{doc}, askpage.SplitOptions{})

		require.NoError(t, err)
		assert.Equal(t, len(embedded), n)
		assert.Equal(t, n, idx.Len())
		assert.Positive(t, n)
	})

	t.Run("counts only chunks the index kept", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(sqlite.MemoryPath)
		require.NoError(t, db.Open())
		t.Cleanup(func() { db.Close() })
		idx := sqlite.NewIndex(db)
		repeated := &askpage.Document{
			ID:        "repeated",
			SourceURL: "https://example.com/ia",
			Content:   "# Definição\n\nIA é um campo.\n\n# Resumo\n\nIA é um campo.",
		}
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(_ context.Context, texts []string) ([][]float32, error) {
				vecs := make([][]float32, len(texts))
				for i := range texts {
					vecs[i] = []float32{1, 0}
				}
				return vecs, nil
			},
		}

		n, err := rag.IndexDocuments(context.Background(), embedder, idx, []*askpage.Document{repeated}, askpage.SplitOptions{})

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("rejects documents without chunks", func(t *testing.T) {
		t.Parallel()

		_, err := rag.IndexDocuments(context.Background(), &mock.Embedder{}, memory.NewIndex(), nil, askpage.SplitOptions{})

		assert.Equal(t, askpage.EINVALID, askpage.ErrorCode(err))
	})

	t.Run("rejects mismatched embedding count", func(t *testing.T) {
		t.Parallel()

		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(context.Context, []string) ([][]float32, error) {
				return nil, nil
			},
		}

		_, err := rag.IndexDocuments(context.Background(), embedder, memory.NewIndex(), []*askpage.Document{doc}, askpage.SplitOptions{})

		assert.Equal(t, askpage.EINTERNAL, askpage.ErrorCode(err))
	})

	t.Run("propagates embedding errors", func(t *testing.T) {
		t.Parallel()

		embedErr := errors.New("quota exceeded")
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(context.Context, []string) ([][]float32, error) {
				return nil, embedErr
			},
		}

		_, err := rag.IndexDocuments(context.Background(), embedder, memory.NewIndex(), []*askpage.Document{doc}, askpage.SplitOptions{})

		require.ErrorIs(t, err, embedErr)
	})
}
