package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/civicmeet/civicmeet"
)

// DefaultCalendarPath is the month-query endpoint appended to the API base.
const DefaultCalendarPath = "GetMeetings"

// Ensure CalendarSource implements civicmeet.Source at compile time.
var _ civicmeet.Source = (*CalendarSource)(nil)

// CalendarSource lists events from an AJAX calendar backend: one POST per
// target month carrying the month bounds, answered by a flat month-scoped
// array. No pagination is involved.
type CalendarSource struct {
	client  *Client
	cfg     *civicmeet.Config
	limiter civicmeet.DomainLimiter
	logger  *slog.Logger

	// Path overrides DefaultCalendarPath when set.
	Path string
}

type monthQuery struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type monthEnvelope struct {
	Data []*civicmeet.CalendarEvent `json:"data"`
}

// NewCalendarSource creates an AJAX-calendar source adapter.
func NewCalendarSource(client *Client, cfg *civicmeet.Config, limiter civicmeet.DomainLimiter, logger *slog.Logger) *CalendarSource {
	return &CalendarSource{client: client, cfg: cfg, limiter: limiter, logger: logger}
}

// Name identifies the backend in logs.
func (s *CalendarSource) Name() string {
	return s.cfg.SourceID
}

// ListEvents issues one month query per calendar month the window touches.
// A failed month is logged and skipped; the remaining months still run.
func (s *CalendarSource) ListEvents(ctx context.Context, window civicmeet.Window) ([]civicmeet.RawEvent, error) {
	endpoint := s.cfg.APIBase + DefaultCalendarPath
	if s.Path != "" {
		endpoint = s.cfg.APIBase + s.Path
	}

	var events []civicmeet.RawEvent
	for _, month := range window.Months() {
		if err := s.limiter.Wait(ctx, hostOf(endpoint)); err != nil {
			return events, err
		}

		first, last := month.Bounds()
		query := monthQuery{
			Start: first.Format("2006-01-02"),
			End:   last.Format("2006-01-02"),
		}

		var envelope monthEnvelope
		if err := s.client.PostJSON(ctx, endpoint, query, &envelope); err != nil {
			s.logger.Warn("month query failed, skipping",
				"source", s.Name(), "year", month.Year, "month", int(month.Month), "error", err)
			continue
		}

		for _, ev := range envelope.Data {
			// Months at the window edges are only partially inside it.
			if date, err := time.ParseInLocation("2006/01/02 15:04:05", ev.Start, s.cfg.Location); err == nil {
				if !window.Contains(date) {
					continue
				}
			}
			events = append(events, civicmeet.RawEvent{Kind: civicmeet.KindCalendar, Calendar: ev})
		}
	}
	return events, nil
}
