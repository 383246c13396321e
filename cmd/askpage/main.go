package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/askpage"
	"github.com/fwojciec/askpage/assistant"
	"github.com/fwojciec/askpage/gemini"
	"github.com/fwojciec/askpage/goquery"
	"github.com/fwojciec/askpage/openai"
	"github.com/fwojciec/askpage/rod"
	"github.com/fwojciec/askpage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	env, err := LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", askpage.ErrorMessage(err))
		os.Exit(1)
	}
	m.Env = env

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", askpage.ErrorMessage(err))
		_ = m.Close()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Env is the parsed environment. Set before calling Run().
	Env Env

	// Stdin feeds the chat command.
	Stdin io.Reader

	// NewProvider creates the model provider by name.
	// Replaceable for end-to-end testing.
	NewProvider func(ctx context.Context, name string) (askpage.Provider, error)

	// SQLite database backing the index when --index=sqlite.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	m := &Main{Stdin: os.Stdin}
	m.NewProvider = m.newProvider
	return m
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	deps.NewAssistant = func(ctx context.Context, url string, flags AssistantFlags) (Assistant, error) {
		return m.newAssistant(ctx, url, flags, stderr)
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("askpage"),
		kong.Description("Ask questions about a web page."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// newAssistant wires the assistant selected by flags.
func (m *Main) newAssistant(ctx context.Context, url string, flags AssistantFlags, stderr io.Writer) (Assistant, error) {
	provider, err := m.NewProvider(ctx, flags.Provider)
	if err != nil {
		return nil, err
	}

	var opts []assistant.Option
	var logger *slog.Logger
	if flags.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
		opts = append(opts, assistant.WithLogger(logger))
	}

	switch flags.Extract {
	case "full":
		opts = append(opts, assistant.WithExtractor(goquery.NewExtractor(), nil))
	case "body":
		opts = append(opts, assistant.WithExtractor(goquery.NewExtractor(goquery.WithoutBoilerplate()), nil))
	}

	if flags.Provider == "gemini" {
		// Token counting is informational; an unsupported model only loses it.
		if tc, err := gemini.NewTokenCounter(flags.Model); err == nil {
			opts = append(opts, assistant.WithTokenCounter(tc))
		} else if logger != nil {
			logger.Warn("token counter unavailable", "model", flags.Model, "err", err)
		}
	}

	if flags.Index == "sqlite" {
		m.DB = sqlite.NewDB(flags.DB)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			return nil, fmt.Errorf("failed to open database at %q: %w", flags.DB, err)
		}
		opts = append(opts, assistant.WithIndex(sqlite.NewIndex(m.DB)))
	}

	userAgent := askpage.ResolveUserAgent(m.Env.UserAgent)
	if flags.Render {
		fetcher, err := rod.NewFetcher(rod.WithUserAgent(userAgent))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		opts = append(opts, assistant.WithFetcher(fetcher))
	}

	a, err := assistant.New(ctx, assistant.Config{
		URL:         url,
		Model:       flags.Model,
		Temperature: flags.Temperature,
		UserAgent:   userAgent,
		TopK:        flags.TopK,
	}, provider, opts...)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		tokens := 0
		for _, d := range a.Documents() {
			tokens += d.Tokens
		}
		logger.Info("page indexed", "url", url, "documents", len(a.Documents()), "chunks", a.Chunks(), "tokens", tokens)
	}
	return a, nil
}

// newProvider creates the named provider from Env.
func (m *Main) newProvider(ctx context.Context, name string) (askpage.Provider, error) {
	switch name {
	case "gemini":
		p, err := gemini.NewProvider(ctx, m.Env.GeminiAPIKey,
			gemini.WithEmbeddingModel(m.Env.EmbeddingModel),
		)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai", "":
		p, err := openai.NewProvider(m.Env.OpenAIAPIKey,
			openai.WithBaseURL(m.Env.OpenAIBaseURL),
			openai.WithEmbeddingModel(m.Env.EmbeddingModel),
		)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, askpage.Errorf(askpage.EINVALID, "unknown provider %q", name)
	}
}
