package mock

import (
	"context"

	"github.com/fwojciec/askpage"
)

var (
	_ askpage.ChatModel = (*ChatModel)(nil)
	_ askpage.Embedder  = (*Embedder)(nil)
	_ askpage.Provider  = (*Provider)(nil)
)

// ChatModel is a mock implementation of askpage.ChatModel.
type ChatModel struct {
	ChatFn func(ctx context.Context, req askpage.ChatRequest) (*askpage.ChatResponse, error)
}

func (m *ChatModel) Chat(ctx context.Context, req askpage.ChatRequest) (*askpage.ChatResponse, error) {
	return m.ChatFn(ctx, req)
}

// Embedder is a mock implementation of askpage.Embedder.
type Embedder struct {
	EmbedDocumentsFn func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn     func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocumentsFn(ctx, texts)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

// Provider is a mock implementation of askpage.Provider.
type Provider struct {
	ChatModelFn func(model string, temperature float64) (askpage.ChatModel, error)
	EmbedderFn  func() (askpage.Embedder, error)
}

func (p *Provider) ChatModel(model string, temperature float64) (askpage.ChatModel, error) {
	return p.ChatModelFn(model, temperature)
}

func (p *Provider) Embedder() (askpage.Embedder, error) {
	return p.EmbedderFn()
}
