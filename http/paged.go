package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/civicmeet/civicmeet"
)

// Ensure PagedSource implements civicmeet.Source at compile time.
var _ civicmeet.Source = (*PagedSource)(nil)

// PagedSource lists events from a paginated REST-like backend. The query
// orders events by date descending and follows the next-page link supplied
// by the response envelope; paging stops once results fall more than the
// configured buffer before the window start, since no earlier-window events
// can remain past that point.
type PagedSource struct {
	client  *Client
	cfg     *civicmeet.Config
	limiter civicmeet.DomainLimiter
	logger  *slog.Logger
}

// pagedEnvelope is the backend's response envelope.
type pagedEnvelope struct {
	Value    []*civicmeet.APIEvent `json:"value"`
	NextLink string                `json:"@odata.nextLink"`
}

// NewPagedSource creates a paginated-API source adapter.
func NewPagedSource(client *Client, cfg *civicmeet.Config, limiter civicmeet.DomainLimiter, logger *slog.Logger) *PagedSource {
	return &PagedSource{client: client, cfg: cfg, limiter: limiter, logger: logger}
}

// Name identifies the backend in logs.
func (s *PagedSource) Name() string {
	return s.cfg.SourceID
}

// ListEvents pages through the events collection and returns all raw
// records dated within the window, inclusive of both bounds. A page fetch
// failure ends paging but keeps the records collected so far.
func (s *PagedSource) ListEvents(ctx context.Context, window civicmeet.Window) ([]civicmeet.RawEvent, error) {
	pageURL := fmt.Sprintf("%sEvents?$orderby=%s&$top=%d",
		s.cfg.APIBase, url.QueryEscape("eventDate desc"), s.cfg.PageSize)

	var events []civicmeet.RawEvent
	for pageURL != "" {
		if err := s.limiter.Wait(ctx, hostOf(pageURL)); err != nil {
			return events, err
		}

		var page pagedEnvelope
		if err := s.client.GetJSON(ctx, pageURL, &page); err != nil {
			s.logger.Warn("page fetch failed, keeping collected events",
				"source", s.Name(), "url", pageURL, "error", err)
			break
		}

		pastWindow := false
		for _, ev := range page.Value {
			date, err := time.Parse(time.RFC3339, ev.EventDate)
			if err != nil {
				continue
			}
			if window.DaysBefore(date) > s.cfg.StopBufferDays {
				pastWindow = true
				break
			}
			if window.Contains(date) {
				events = append(events, civicmeet.RawEvent{Kind: civicmeet.KindAPI, API: ev})
			}
		}
		if pastWindow {
			break
		}
		pageURL = page.NextLink
	}
	return events, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
