// Package web turns a URL into askpage documents by fetching the page,
// extracting its main content and converting it to Markdown.
package web

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/askpage"
	"github.com/google/uuid"
)

// Ensure Loader implements askpage.Loader at compile time.
var _ askpage.Loader = (*Loader)(nil)

// Loader loads a single web page as one document.
type Loader struct {
	Fetcher   askpage.Fetcher
	Extractor askpage.Extractor
	// Fallback is tried when Extractor fails or finds no content.
	Fallback  askpage.Extractor
	Converter askpage.Converter
	// TokenCounter is optional; when set, documents carry a token count.
	TokenCounter askpage.TokenCounter

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Load fetches url and returns its content as a document. A page that
// yields no readable text produces an empty slice and no error.
func (l *Loader) Load(ctx context.Context, url string) ([]*askpage.Document, error) {
	html, err := l.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	extracted := l.extract(html)
	if extracted == nil {
		return nil, nil
	}

	markdown, err := l.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", url, err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, nil
	}

	title := strings.TrimSpace(extracted.Title)
	if title == "" {
		title = url
	}

	doc := &askpage.Document{
		ID:        uuid.New().String(),
		SourceURL: url,
		Title:     title,
		Content:   markdown,
		FetchedAt: l.now(),
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if l.TokenCounter != nil {
		tokens, err := l.TokenCounter.CountTokens(ctx, markdown)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		doc.Tokens = tokens
	}

	return []*askpage.Document{doc}, nil
}

// extract runs the primary extractor and falls back to the secondary one.
// It returns nil when neither finds content.
func (l *Loader) extract(html string) *askpage.ExtractResult {
	extractors := []askpage.Extractor{l.Extractor}
	if l.Fallback != nil {
		extractors = append(extractors, l.Fallback)
	}

	for _, e := range extractors {
		result, err := e.Extract(html)
		if err != nil || result == nil {
			continue
		}
		if strings.TrimSpace(result.ContentHTML) != "" {
			return result
		}
	}
	return nil
}

func (l *Loader) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
