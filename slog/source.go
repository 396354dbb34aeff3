// Package slog provides logging decorators for pipeline services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/civicmeet/civicmeet"
)

// Ensure LoggingSource implements civicmeet.Source.
var _ civicmeet.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with operation logging.
type LoggingSource struct {
	next   civicmeet.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next civicmeet.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Name delegates to the wrapped source.
func (s *LoggingSource) Name() string {
	return s.next.Name()
}

// ListEvents delegates to the wrapped source and logs the listing outcome.
func (s *LoggingSource) ListEvents(ctx context.Context, window civicmeet.Window) (events []civicmeet.RawEvent, err error) {
	defer func(begin time.Time) {
		s.logger.Info("source listing",
			"source", s.next.Name(),
			"window_start", window.Start.Format("2006-01-02"),
			"window_end", window.End.Format("2006-01-02"),
			"count", len(events),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListEvents(ctx, window)
}
