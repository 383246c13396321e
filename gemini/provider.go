// Package gemini implements askpage.Provider on the Google Gemini API and
// provides a local Gemini token counter.
package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/askpage"
	"google.golang.org/genai"
)

// Provider defaults.
const (
	DefaultChatModel      = "gemini-2.5-flash"
	DefaultEmbeddingModel = "gemini-embedding-001"
)

// Ensure Provider implements askpage.Provider at compile time.
var _ askpage.Provider = (*Provider)(nil)

// Provider creates Gemini chat models and embedders sharing one client.
type Provider struct {
	client         *genai.Client
	embeddingModel string
}

// Option configures a Provider.
type Option func(*Provider)

// WithEmbeddingModel overrides DefaultEmbeddingModel.
func WithEmbeddingModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.embeddingModel = model
		}
	}
}

// NewProvider creates a Provider for the Gemini API authenticated with apiKey.
func NewProvider(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, askpage.Errorf(askpage.EINVALID, "Gemini API key required (set GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return NewProviderWithClient(client, opts...), nil
}

// NewProviderWithClient wraps an existing client.
func NewProviderWithClient(client *genai.Client, opts ...Option) *Provider {
	p := &Provider{client: client, embeddingModel: DefaultEmbeddingModel}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ChatModel returns a chat model bound to model and temperature.
func (p *Provider) ChatModel(model string, temperature float64) (askpage.ChatModel, error) {
	if temperature < 0 || temperature > 2 {
		return nil, askpage.Errorf(askpage.EINVALID, "temperature must be between 0 and 2, got %v", temperature)
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatModel{client: p.client, model: model, temperature: float32(temperature)}, nil
}

// Embedder returns an embedder using the configured embedding model.
func (p *Provider) Embedder() (askpage.Embedder, error) {
	return &Embedder{client: p.client, model: p.embeddingModel}, nil
}
