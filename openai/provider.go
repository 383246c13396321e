// Package openai implements askpage.Provider on the OpenAI API: chat
// completions with function tools and text embeddings.
package openai

import (
	"github.com/fwojciec/askpage"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Provider defaults.
const (
	DefaultChatModel      = "gpt-4-turbo"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultBaseURL        = "https://api.openai.com/v1"
)

// Ensure Provider implements askpage.Provider at compile time.
var _ askpage.Provider = (*Provider)(nil)

// Provider creates OpenAI chat models and embedders sharing one client.
type Provider struct {
	client         openai.Client
	embeddingModel string
}

// Option configures a Provider.
type Option func(*providerConfig)

type providerConfig struct {
	baseURL        string
	embeddingModel string
	requestOpts    []option.RequestOption
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *providerConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithEmbeddingModel overrides DefaultEmbeddingModel.
func WithEmbeddingModel(model string) Option {
	return func(c *providerConfig) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithRequestOptions passes extra options to the underlying client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *providerConfig) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// NewProvider creates a Provider authenticated with apiKey.
func NewProvider(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, askpage.Errorf(askpage.EINVALID, "OpenAI API key required (set OPENAI_API_KEY)")
	}

	cfg := providerConfig{
		baseURL:        DefaultBaseURL,
		embeddingModel: DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := append([]option.RequestOption{
		option.WithBaseURL(cfg.baseURL),
		option.WithAPIKey(apiKey),
	}, cfg.requestOpts...)

	return &Provider{
		client:         openai.NewClient(reqOpts...),
		embeddingModel: cfg.embeddingModel,
	}, nil
}

// ChatModel returns a chat model bound to model and temperature.
func (p *Provider) ChatModel(model string, temperature float64) (askpage.ChatModel, error) {
	if temperature < 0 || temperature > 2 {
		return nil, askpage.Errorf(askpage.EINVALID, "temperature must be between 0 and 2, got %v", temperature)
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatModel{client: p.client, model: model, temperature: temperature}, nil
}

// Embedder returns an embedder using the configured embedding model.
func (p *Provider) Embedder() (askpage.Embedder, error) {
	return &Embedder{client: p.client, model: p.embeddingModel}, nil
}
