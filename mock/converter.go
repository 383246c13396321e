package mock

import "github.com/fwojciec/askpage"

var _ askpage.Converter = (*Converter)(nil)

// Converter is a mock implementation of askpage.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
