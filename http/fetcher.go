// Package http provides the HTTP side of hq: a Fetcher for remote HTML
// input with byte-range support and the Server backing the hosted query
// endpoint.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/hq"
	"github.com/fwojciec/hq/gzip"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements hq.Fetcher at compile time.
var _ hq.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents over HTTP. A requested byte range is sent
// as a Range header and gzip-compressed bodies are decompressed.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	limiter *HostLimiter

	// chunkSize and workers enable splitting large ranges into sub-ranges
	// fetched concurrently.
	chunkSize int64
	workers   int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient uses client instead of a new http.Client. The client's own
// timeout applies.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithRateLimit limits requests to rps per second per host.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = NewHostLimiter(rps)
		}
	}
}

// WithParallelRanges splits a requested range longer than chunkSize bytes
// into consecutive sub-ranges fetched by up to workers concurrent requests.
func WithParallelRanges(chunkSize int64, workers int) Option {
	return func(f *Fetcher) {
		f.chunkSize = chunkSize
		f.workers = workers
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the document at loc.
func (f *Fetcher) Fetch(ctx context.Context, loc hq.Location) (string, error) {
	var data []byte
	var err error
	if f.chunkSize > 0 && loc.HasRange() && loc.Length > f.chunkSize {
		data, err = f.fetchParallel(ctx, loc)
	} else {
		data, _, err = f.get(ctx, loc.URL, loc.Range())
	}
	if err != nil {
		return "", err
	}

	return gzip.Decode(data)
}

// fetchParallel fetches loc's range as ordered chunks and joins them.
func (f *Fetcher) fetchParallel(ctx context.Context, loc hq.Location) ([]byte, error) {
	var ranges []string
	for start := loc.Offset; start <= loc.End(); start += f.chunkSize {
		end := min(start+f.chunkSize-1, loc.End())
		ranges = append(ranges, fmt.Sprintf("bytes=%d-%d", start, end))
	}

	parts := make([][]byte, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	if f.workers > 0 {
		g.SetLimit(f.workers)
	}
	for i, r := range ranges {
		g.Go(func() error {
			body, status, err := f.get(gctx, loc.URL, r)
			if err != nil {
				return err
			}
			if status != http.StatusPartialContent {
				return fmt.Errorf("HTTP %d for %s: server ignored range %s", status, loc.URL, r)
			}
			parts[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bytes.Join(parts, nil), nil
}

// get performs a single GET, optionally with a Range header, and returns
// the body and status code. Only 200 and 206 responses succeed.
func (f *Fetcher) get(ctx context.Context, url, byteRange string) ([]byte, int, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, hq.Location{URL: url}.Host()); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
