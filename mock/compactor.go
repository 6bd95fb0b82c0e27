package mock

import "github.com/fwojciec/hq"

var _ hq.Compactor = (*Compactor)(nil)

// Compactor is a mock implementation of hq.Compactor.
type Compactor struct {
	CompactFn func(s string) string
}

func (c *Compactor) Compact(s string) string {
	return c.CompactFn(s)
}
