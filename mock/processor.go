package mock

import "github.com/fwojciec/hq"

var _ hq.Processor = (*Processor)(nil)

// Processor is a mock implementation of hq.Processor.
type Processor struct {
	ProcessFn func(html string, cfg hq.Config) (string, error)
}

func (p *Processor) Process(html string, cfg hq.Config) (string, error) {
	return p.ProcessFn(html, cfg)
}
