package mock

import "github.com/fwojciec/hq"

var _ hq.Converter = (*Converter)(nil)

// Converter is a mock implementation of hq.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
