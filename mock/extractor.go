package mock

import "github.com/fwojciec/askpage"

var _ askpage.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of askpage.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*askpage.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*askpage.ExtractResult, error) {
	return e.ExtractFn(html)
}
