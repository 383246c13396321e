package assistant_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/askpage"
	"github.com/fwojciec/askpage/assistant"
	"github.com/fwojciec/askpage/goquery"
	"github.com/fwojciec/askpage/memory"
	"github.com/fwojciec/askpage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html lang="pt">
<head><title>Inteligência artificial</title></head>
<body>
<h1>Inteligência artificial</h1>
<p>Inteligência artificial é a capacidade de sistemas computacionais executarem tarefas associadas à inteligência humana.</p>
<h2>Aprendizado de máquina</h2>
<p>Aprendizado de máquina é um subcampo que estuda algoritmos capazes de aprender a partir de dados.</p>
</body>
</html>`

// pageServer serves body and records the User-Agent of every request.
type pageServer struct {
	mu         sync.Mutex
	userAgents []string
	*httptest.Server
}

func newPageServer(t *testing.T, body string) *pageServer {
	t.Helper()

	s := &pageServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.userAgents = append(s.userAgents, r.Header.Get("User-Agent"))
		s.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *pageServer) UserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userAgents...)
}

// fakeEmbedder maps text to a vector of keyword hits.
func fakeEmbedder() *mock.Embedder {
	embed := func(text string) []float32 {
		text = strings.ToLower(text)
		return []float32{
			float32(strings.Count(text, "inteligência")) + 0.1,
			float32(strings.Count(text, "aprendizado")) + 0.1,
		}
	}
	return &mock.Embedder{
		EmbedDocumentsFn: func(_ context.Context, texts []string) ([][]float32, error) {
			vecs := make([][]float32, len(texts))
			for i, t := range texts {
				vecs[i] = embed(t)
			}
			return vecs, nil
		},
		EmbedQueryFn: func(_ context.Context, text string) ([]float32, error) {
			return embed(text), nil
		},
	}
}

// provider returns a mock provider whose chat model is model.
func provider(model askpage.ChatModel) *mock.Provider {
	return &mock.Provider{
		ChatModelFn: func(string, float64) (askpage.ChatModel, error) {
			return model, nil
		},
		EmbedderFn: func() (askpage.Embedder, error) {
			return fakeEmbedder(), nil
		},
	}
}

// answering is a chat model that always answers with text.
func answering(answer string) *mock.ChatModel {
	return &mock.ChatModel{
		ChatFn: func(context.Context, askpage.ChatRequest) (*askpage.ChatResponse, error) {
			return &askpage.ChatResponse{Content: answer}, nil
		},
	}
}

func wholePage() assistant.Option {
	return assistant.WithExtractor(goquery.NewExtractor(), nil)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("fails with EINVALID when no documents load", func(t *testing.T) {
		t.Parallel()

		for _, cfg := range []assistant.Config{
			{Temperature: 0},
			{Model: "gpt-4o", Temperature: 0.2},
			{Model: "gemini-2.5-flash", Temperature: 1.5},
		} {
			srv := newPageServer(t, "")
			cfg.URL = srv.URL

			_, err := assistant.New(context.Background(), cfg, provider(answering("x")), wholePage())

			require.Error(t, err)
			assert.Equal(t, askpage.EINVALID, askpage.ErrorCode(err))
			assert.Equal(t, "no documents were loaded; check the URL or the User-Agent", askpage.ErrorMessage(err))
		}
	})

	t.Run("does not embed when no documents load", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, "<html><body><script>x()</script></body></html>")
		embedded := false
		p := provider(answering("x"))
		p.EmbedderFn = func() (askpage.Embedder, error) {
			return &mock.Embedder{
				EmbedDocumentsFn: func(context.Context, []string) ([][]float32, error) {
					embedded = true
					return nil, nil
				},
			}, nil
		}

		_, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, p, wholePage())

		assert.Equal(t, askpage.EINVALID, askpage.ErrorCode(err))
		assert.False(t, embedded)
	})

	t.Run("succeeds when a document loads", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		idx := memory.NewIndex()

		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL, Temperature: 0.2}, provider(answering("x")),
			wholePage(), assistant.WithIndex(idx))

		require.NoError(t, err)
		defer a.Close()
		require.Len(t, a.Documents(), 1)
		assert.Equal(t, "Inteligência artificial", a.Documents()[0].Title)
		assert.Positive(t, a.Chunks())
		assert.Equal(t, a.Chunks(), idx.Len())
		assert.Equal(t, 0, a.History().Len())
	})

	t.Run("sends the configured User-Agent", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		ua := "askpage-test/1.0 (+https://example.com/bot)"

		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL, UserAgent: ua}, provider(answering("x")), wholePage())

		require.NoError(t, err)
		assert.Equal(t, []string{ua}, srv.UserAgents())
		assert.Equal(t, ua, a.UserAgent())
	})

	t.Run("sends the default User-Agent when unset", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)

		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, provider(answering("x")), wholePage())

		require.NoError(t, err)
		assert.Equal(t, []string{askpage.DefaultUserAgent}, srv.UserAgents())
		assert.Equal(t, askpage.DefaultUserAgent, a.UserAgent())
	})

	t.Run("keeps a whitespace-only User-Agent", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)

		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL, UserAgent: " "}, provider(answering("x")), wholePage())

		require.NoError(t, err)
		assert.Equal(t, " ", a.UserAgent())
	})

	t.Run("passes model and temperature to the provider", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		var gotModel string
		var gotTemp float64
		p := provider(answering("x"))
		p.ChatModelFn = func(model string, temperature float64) (askpage.ChatModel, error) {
			gotModel, gotTemp = model, temperature
			return answering("x"), nil
		}

		_, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL, Model: "gpt-4o", Temperature: 0.7}, p, wholePage())

		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", gotModel)
		assert.InDelta(t, 0.7, gotTemp, 1e-9)
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		for _, cfg := range []assistant.Config{
			{},
			{URL: "https://example.com", Temperature: 2.1},
			{URL: "https://example.com", Temperature: -1},
			{URL: "https://example.com", TopK: -1},
		} {
			_, err := assistant.New(context.Background(), cfg, provider(answering("x")))

			assert.Equal(t, askpage.EINVALID, askpage.ErrorCode(err))
		}
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, provider(answering("x")), wholePage())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 403")
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		t.Parallel()

		authErr := errors.New("missing API key")
		p := provider(answering("x"))
		p.ChatModelFn = func(string, float64) (askpage.ChatModel, error) { return nil, authErr }

		_, err := assistant.New(context.Background(), assistant.Config{URL: "https://example.com"}, p)

		require.ErrorIs(t, err, authErr)
	})

	t.Run("uses a custom fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return page, nil },
			CloseFn: func() error { closed = true; return nil },
		}

		a, err := assistant.New(context.Background(), assistant.Config{URL: "https://pt.wikipedia.org/wiki/IA"}, provider(answering("x")),
			wholePage(), assistant.WithFetcher(fetcher))

		require.NoError(t, err)
		require.NoError(t, a.Close())
		assert.True(t, closed)
	})

	t.Run("logs when a logger is set", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		var buf bytes.Buffer

		_, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, provider(answering("x")),
			wholePage(), assistant.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "msg=fetch")
		assert.Contains(t, buf.String(), "msg=\"embed documents\"")
	})
}

func TestAssistant_RunQuery(t *testing.T) {
	t.Parallel()

	t.Run("declares the knowledge base tool with the system prompt", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		var req askpage.ChatRequest
		model := &mock.ChatModel{
			ChatFn: func(_ context.Context, r askpage.ChatRequest) (*askpage.ChatResponse, error) {
				req = r
				return &askpage.ChatResponse{Content: "Olá"}, nil
			},
		}
		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, provider(model), wholePage())
		require.NoError(t, err)

		answer, err := a.RunQuery(context.Background(), "oi")

		require.NoError(t, err)
		assert.Equal(t, "Olá", answer)
		require.Len(t, req.Tools, 1)
		assert.Equal(t, assistant.ToolName, req.Tools[0].Name)
		assert.Equal(t, assistant.ToolDescription, req.Tools[0].Description)
		assert.Equal(t, askpage.Message{Role: askpage.RoleSystem, Content: assistant.SystemPrompt}, req.Messages[0])
		assert.Equal(t, askpage.Message{Role: askpage.RoleUser, Content: "oi"}, req.Messages[len(req.Messages)-1])
	})

	t.Run("answers through the knowledge base", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		var retrievalPrompt string
		model := &mock.ChatModel{
			ChatFn: func(_ context.Context, r askpage.ChatRequest) (*askpage.ChatResponse, error) {
				last := r.Messages[len(r.Messages)-1]
				switch {
				case len(r.Tools) == 0:
					retrievalPrompt = last.Content
					return &askpage.ChatResponse{Content: "Um subcampo que aprende com dados."}, nil
				case last.Role == askpage.RoleTool:
					return &askpage.ChatResponse{Content: "Aprendizado de máquina aprende com dados."}, nil
				default:
					return &askpage.ChatResponse{ToolCalls: []askpage.ToolCall{{
						ID: "call_1", Name: assistant.ToolName, Arguments: `{"query":"O que é aprendizado de máquina?"}`,
					}}}, nil
				}
			},
		}
		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, provider(model), wholePage())
		require.NoError(t, err)

		answer, err := a.RunQuery(context.Background(), "O que é aprendizado de máquina?")

		require.NoError(t, err)
		assert.Equal(t, "Aprendizado de máquina aprende com dados.", answer)
		assert.Contains(t, retrievalPrompt, "algoritmos capazes de aprender a partir de dados")
	})

	t.Run("history grows and later queries see earlier turns", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, page)
		var requests []askpage.ChatRequest
		model := &mock.ChatModel{
			ChatFn: func(_ context.Context, r askpage.ChatRequest) (*askpage.ChatResponse, error) {
				requests = append(requests, r)
				return &askpage.ChatResponse{Content: "resposta " + r.Messages[len(r.Messages)-1].Content}, nil
			},
		}
		a, err := assistant.New(context.Background(), assistant.Config{URL: srv.URL}, provider(model), wholePage())
		require.NoError(t, err)

		_, err = a.RunQuery(context.Background(), "primeira")
		require.NoError(t, err)
		first := a.History().Len()

		_, err = a.RunQuery(context.Background(), "segunda")
		require.NoError(t, err)
		second := a.History().Len()

		assert.Positive(t, first)
		assert.Greater(t, second, first)
		require.Len(t, requests, 2)
		assert.Contains(t, requests[1].Messages, askpage.Message{Role: askpage.RoleUser, Content: "primeira"})
		assert.Contains(t, requests[1].Messages, askpage.Message{Role: askpage.RoleAssistant, Content: "resposta primeira"})
	})
}
