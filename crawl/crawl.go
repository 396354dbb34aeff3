// Package crawl orchestrates a meeting-calendar crawl: source listing,
// normalization, document enrichment, deduplication and ordering.
package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/civicmeet/civicmeet"
	"github.com/civicmeet/civicmeet/normalize"
	"github.com/civicmeet/civicmeet/parse"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the document fetch/extract worker pool, the
// slowest and most parallelizable step. Per-host pacing still applies
// inside each worker.
const DefaultConcurrency = 4

// Crawler runs the pipeline end to end for one or more sources.
type Crawler struct {
	Sources    []civicmeet.Source
	Normalizer *normalize.Normalizer

	// Extractor enables document enrichment when non-nil.
	Extractor civicmeet.TextExtractor

	Limiter     civicmeet.DomainLimiter
	Logger      *slog.Logger
	Concurrency int

	// KeyFields configures the dedup key; DefaultKeyFields when empty.
	KeyFields []KeyField
}

// Result summarizes one crawl run.
type Result struct {
	Meetings   []*civicmeet.Meeting
	Listed     int
	Skipped    int
	Duplicates int
	Enriched   int
}

// Run lists raw events within the window from every source, normalizes
// them, enriches agenda and minutes documents when an extractor is
// configured, and returns the deduplicated meetings sorted by start time.
// Per-record and per-source failures are logged and skipped; partial
// results always win over total failure.
func (c *Crawler) Run(ctx context.Context, window civicmeet.Window) (*Result, error) {
	result := &Result{}

	var meetings []*civicmeet.Meeting
	for _, source := range c.Sources {
		raws, err := source.ListEvents(ctx, window)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.Logger.Error("source listing failed", "source", source.Name(), "error", err)
			continue
		}
		result.Listed += len(raws)

		for _, raw := range raws {
			m, err := c.Normalizer.Meeting(raw)
			if err != nil {
				result.Skipped++
				c.Logger.Warn("record skipped", "source", source.Name(), "error", err)
				continue
			}
			meetings = append(meetings, m)
		}
	}

	if c.Extractor != nil {
		if err := c.enrich(ctx, meetings, result); err != nil {
			return nil, err
		}
	}

	unique := Dedupe(meetings, c.KeyFields)
	result.Duplicates = len(meetings) - len(unique)
	result.Meetings = unique
	return result, nil
}

// enrich populates agenda and minutes text and the structured fields
// parsed from them, fanning out across a bounded worker pool. Each worker
// owns its meeting, so no locking is needed.
func (c *Crawler) enrich(ctx context.Context, meetings []*civicmeet.Meeting, result *Result) error {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	enriched := make([]bool, len(meetings))
	for i, m := range meetings {
		if m.AgendaURL == nil && m.MinutesURL == nil {
			continue
		}
		g.Go(func() error {
			enriched[i] = c.enrichMeeting(gctx, m)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, ok := range enriched {
		if ok {
			result.Enriched++
		}
	}
	return nil
}

// enrichMeeting extracts the meeting's documents and parses agenda items
// from agenda text and roll-call votes from minutes text. Extraction is
// best-effort; a failed document leaves its fields null.
func (c *Crawler) enrichMeeting(ctx context.Context, m *civicmeet.Meeting) bool {
	var enriched bool

	if m.AgendaURL != nil {
		if text, ok := c.extract(ctx, *m.AgendaURL); ok {
			m.AgendaText = &text
			m.AgendaItems = parse.AgendaItems(text)
			enriched = true
		}
	}
	if m.MinutesURL != nil {
		if text, ok := c.extract(ctx, *m.MinutesURL); ok {
			m.MinutesText = &text
			m.Votes = parse.Votes(text)
			enriched = true
		}
	}
	return enriched
}

func (c *Crawler) extract(ctx context.Context, docURL string) (string, bool) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, hostOf(docURL)); err != nil {
			return "", false
		}
	}
	return c.Extractor.FetchExtract(ctx, docURL)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
