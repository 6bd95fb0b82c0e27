package mock

import (
	"context"

	"github.com/fwojciec/hq"
)

var _ hq.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of hq.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, loc hq.Location) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, loc hq.Location) (string, error) {
	return f.FetchFn(ctx, loc)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
