package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/hq"
)

// Ensure LoggingFetcher implements hq.Fetcher.
var _ hq.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   hq.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next hq.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, loc hq.Location) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", loc.URL,
			"range", loc.Range(),
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, loc)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
