// Package slog provides logging decorators for hq services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/hq"
)

// Ensure LoggingProcessor implements hq.Processor.
var _ hq.Processor = (*LoggingProcessor)(nil)

// LoggingProcessor wraps a Processor with logging.
type LoggingProcessor struct {
	next   hq.Processor
	logger *slog.Logger
}

// NewLoggingProcessor creates a new LoggingProcessor.
func NewLoggingProcessor(next hq.Processor, logger *slog.Logger) *LoggingProcessor {
	return &LoggingProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor and logs the run.
func (p *LoggingProcessor) Process(html string, cfg hq.Config) (out string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		p.logger.Log(context.Background(), level, "process",
			"selector", cfg.Selector,
			"mode", cfg.Mode().String(),
			"compact", cfg.Compact,
			"in_bytes", len(html),
			"out_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Process(html, cfg)
}
