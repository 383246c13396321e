// Package readability extracts the main content of a web page with go-readability.
// It serves as the fallback when the primary extractor finds nothing.
package readability

import (
	"html"
	"strings"

	"github.com/fwojciec/askpage"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements askpage.Extractor at compile time.
var _ askpage.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// When readability keeps no markup but finds text, the text is returned
// as a single escaped paragraph.
func (e *Extractor) Extract(rawHTML string) (*askpage.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, askpage.Errorf(askpage.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	content := article.Content
	if strings.TrimSpace(content) == "" && strings.TrimSpace(article.TextContent) != "" {
		content = "<p>" + html.EscapeString(strings.TrimSpace(article.TextContent)) + "</p>"
	}

	return &askpage.ExtractResult{
		Title:       article.Title,
		ContentHTML: content,
	}, nil
}
