package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/askpage"
)

var (
	_ askpage.ChatModel = (*LoggingChatModel)(nil)
	_ askpage.Embedder  = (*LoggingEmbedder)(nil)
)

// LoggingChatModel wraps a ChatModel with logging.
type LoggingChatModel struct {
	next   askpage.ChatModel
	logger *slog.Logger
}

// NewLoggingChatModel creates a new LoggingChatModel.
func NewLoggingChatModel(next askpage.ChatModel, logger *slog.Logger) *LoggingChatModel {
	return &LoggingChatModel{next: next, logger: logger}
}

// Chat delegates to the wrapped model and logs the exchange size.
func (m *LoggingChatModel) Chat(ctx context.Context, req askpage.ChatRequest) (resp *askpage.ChatResponse, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"messages", len(req.Messages),
			"tools", len(req.Tools),
			"duration", time.Since(begin),
			"err", err,
		}
		if resp != nil {
			attrs = append(attrs, "answer_chars", len(resp.Content), "tool_calls", len(resp.ToolCalls))
		}
		m.logger.Info("chat", attrs...)
	}(time.Now())
	return m.next.Chat(ctx, req)
}

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   askpage.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next askpage.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// EmbedDocuments delegates to the wrapped embedder and logs the batch size.
func (e *LoggingEmbedder) EmbedDocuments(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed documents",
			"texts", len(texts),
			"vectors", len(vecs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedDocuments(ctx, texts)
}

// EmbedQuery delegates to the wrapped embedder and logs the vector size.
func (e *LoggingEmbedder) EmbedQuery(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed query",
			"chars", len(text),
			"dims", len(vec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedQuery(ctx, text)
}
