package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/civicmeet/civicmeet"
)

// Ensure LoggingExtractor implements civicmeet.TextExtractor.
var _ civicmeet.TextExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a TextExtractor with operation logging.
type LoggingExtractor struct {
	next   civicmeet.TextExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next civicmeet.TextExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// FetchExtract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) FetchExtract(ctx context.Context, url string) (text string, ok bool) {
	defer func(begin time.Time) {
		e.logger.Debug("document extraction",
			"url", url,
			"ok", ok,
			"chars", len(text),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.FetchExtract(ctx, url)
}
