// Package assistant assembles the question-answering assistant: it loads
// one page, indexes it and answers questions through an agent whose single
// tool is a conversational retrieval chain over that page.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fwojciec/askpage"
	"github.com/fwojciec/askpage/agent"
	"github.com/fwojciec/askpage/htmltomarkdown"
	askhttp "github.com/fwojciec/askpage/http"
	"github.com/fwojciec/askpage/memory"
	"github.com/fwojciec/askpage/rag"
	"github.com/fwojciec/askpage/readability"
	askslog "github.com/fwojciec/askpage/slog"
	"github.com/fwojciec/askpage/trafilatura"
	"github.com/fwojciec/askpage/web"
)

// Ensure Assistant implements askpage.Assistant at compile time.
var _ askpage.Assistant = (*Assistant)(nil)

// Assistant answers questions about one loaded page.
type Assistant struct {
	agent     *agent.Agent
	history   *askpage.History
	fetcher   askpage.Fetcher
	userAgent string
	documents []*askpage.Document
	chunks    int
}

type options struct {
	fetcher      askpage.Fetcher
	index        askpage.Index
	extractor    askpage.Extractor
	fallback     askpage.Extractor
	converter    askpage.Converter
	tokenCounter askpage.TokenCounter
	logger       *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithFetcher replaces the default HTTP fetcher, for example with a
// browser-based one. The fetcher is responsible for its own User-Agent.
func WithFetcher(f askpage.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithIndex replaces the default in-memory index.
func WithIndex(idx askpage.Index) Option {
	return func(o *options) { o.index = idx }
}

// WithExtractor replaces the default main-content extractors.
// fallback may be nil.
func WithExtractor(primary, fallback askpage.Extractor) Option {
	return func(o *options) {
		o.extractor = primary
		o.fallback = fallback
	}
}

// WithConverter replaces the default HTML to Markdown converter.
func WithConverter(c askpage.Converter) Option {
	return func(o *options) { o.converter = c }
}

// WithTokenCounter records the token count of loaded documents.
func WithTokenCounter(tc askpage.TokenCounter) Option {
	return func(o *options) { o.tokenCounter = tc }
}

// WithLogger logs fetches, model calls, embeddings and tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds an Assistant for cfg.URL. It fetches and indexes the page
// before returning, and fails with EINVALID when the page yields no
// documents. New owns a fetcher passed with WithFetcher and closes it on
// failure.
func New(ctx context.Context, cfg Config, provider askpage.Provider, opts ...Option) (*Assistant, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		closeFetcher(o.fetcher)
		return nil, err
	}
	cfg = cfg.withDefaults()

	model, err := provider.ChatModel(cfg.Model, cfg.Temperature)
	if err != nil {
		closeFetcher(o.fetcher)
		return nil, err
	}
	embedder, err := provider.Embedder()
	if err != nil {
		closeFetcher(o.fetcher)
		return nil, err
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = askhttp.NewFetcher(askhttp.WithUserAgent(cfg.UserAgent))
	}

	if o.logger != nil {
		fetcher = askslog.NewLoggingFetcher(fetcher, o.logger)
		model = askslog.NewLoggingChatModel(model, o.logger)
		embedder = askslog.NewLoggingEmbedder(embedder, o.logger)
	}

	history := askpage.NewHistory()

	loader := &web.Loader{
		Fetcher:      fetcher,
		Extractor:    o.extractor,
		Fallback:     o.fallback,
		Converter:    o.converter,
		TokenCounter: o.tokenCounter,
	}
	if loader.Extractor == nil {
		loader.Extractor = trafilatura.NewExtractor()
		loader.Fallback = readability.NewExtractor()
	}
	if loader.Converter == nil {
		loader.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(origin(cfg.URL)))
	}

	docs, err := loader.Load(ctx, cfg.URL)
	if err != nil {
		_ = fetcher.Close()
		return nil, err
	}
	if len(docs) == 0 {
		_ = fetcher.Close()
		return nil, askpage.Errorf(askpage.EINVALID, "no documents were loaded; check the URL or the User-Agent")
	}

	index := o.index
	if index == nil {
		index = memory.NewIndex()
	}
	n, err := rag.IndexDocuments(ctx, embedder, index, docs, askpage.SplitOptions{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	})
	if err != nil {
		_ = fetcher.Close()
		return nil, err
	}

	chain := &rag.Chain{
		Model:    model,
		Embedder: embedder,
		Index:    index,
		History:  history,
		TopK:     cfg.TopK,
	}

	tool := askpage.Tool{
		Name:        ToolName,
		Description: ToolDescription,
		Func:        chain.Run,
	}
	if o.logger != nil {
		tool = askslog.LoggingTool(tool, o.logger)
	}

	return &Assistant{
		agent: &agent.Agent{
			Model:         model,
			Tools:         []askpage.Tool{tool},
			History:       history,
			Prompt:        agent.Prompt{System: cfg.SystemPrompt, UserTemplate: agent.InputVariable},
			MaxIterations: cfg.MaxIterations,
		},
		history:   history,
		fetcher:   fetcher,
		userAgent: cfg.UserAgent,
		documents: docs,
		chunks:    n,
	}, nil
}

// RunQuery answers query, sharing history with earlier queries.
func (a *Assistant) RunQuery(ctx context.Context, query string) (string, error) {
	return a.agent.Run(ctx, query)
}

// History returns the conversation buffer shared by the agent and the chain.
func (a *Assistant) History() *askpage.History {
	return a.history
}

// UserAgent returns the resolved User-Agent the default fetcher sends.
func (a *Assistant) UserAgent() string {
	return a.userAgent
}

// Documents returns the loaded documents.
func (a *Assistant) Documents() []*askpage.Document {
	return a.documents
}

// Chunks returns the number of indexed chunks.
func (a *Assistant) Chunks() int {
	return a.chunks
}

// Close releases the fetcher.
func (a *Assistant) Close() error {
	return a.fetcher.Close()
}

func closeFetcher(f askpage.Fetcher) {
	if f != nil {
		_ = f.Close()
	}
}

// origin returns scheme and host of rawURL, or "" if it cannot be parsed.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}
