// Package goquery provides a whole-page text extractor built on goquery.
// Unlike the boilerplate-removing extractors it keeps every visible part
// of the body, which suits pages the main-content heuristics misjudge.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/askpage"
)

// Ensure Extractor implements askpage.Extractor at compile time.
var _ askpage.Extractor = (*Extractor)(nil)

// invisible lists elements that never contribute readable text.
const invisible = "script, style, noscript, template, svg, iframe, link, meta"

// Extractor returns the page body with non-content elements removed.
type Extractor struct {
	remove string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithoutBoilerplate also drops navigation, header, footer and sidebar elements.
func WithoutBoilerplate() Option {
	return func(e *Extractor) {
		e.remove += ", nav, header, footer, aside, [role=navigation]"
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{remove: invisible}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML and returns its body markup and title.
func (e *Extractor) Extract(rawHTML string) (*askpage.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, askpage.Errorf(askpage.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, askpage.Errorf(askpage.EINVALID, "failed to parse HTML: %v", err)
	}

	title := pageTitle(doc)

	body := doc.Find("body")
	body.Find(e.remove).Remove()

	content, err := body.Html()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body.Text()) == "" {
		content = ""
	}

	return &askpage.ExtractResult{
		Title:       title,
		ContentHTML: strings.TrimSpace(content),
	}, nil
}

// pageTitle prefers the og:title meta tag, then <title>, then the first <h1>.
func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if t := strings.TrimSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
