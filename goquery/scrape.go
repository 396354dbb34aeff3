// Package goquery implements the HTML-scrape source adapter for portals
// that expose no structured events endpoint.
package goquery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicmeet/civicmeet"
	"github.com/civicmeet/civicmeet/bloom"
)

// Ensure ScrapeSource implements civicmeet.Source at compile time.
var _ civicmeet.Source = (*ScrapeSource)(nil)

// fallbackListPath is the static listing page scraped when every month
// index yields zero candidate links, which happens when the calendar view
// is client-rendered.
const fallbackListPath = "Meetings"

// expectedPages sizes the visited-URL filter.
const expectedPages = 10000

// ScrapeSource lists events by scraping month-index pages for detail-page
// links and then parsing each detail page. Any single page failure is
// logged and skipped.
type ScrapeSource struct {
	fetcher civicmeet.Fetcher
	cfg     *civicmeet.Config
	limiter civicmeet.DomainLimiter
	logger  *slog.Logger
}

// NewScrapeSource creates an HTML-scrape source adapter.
func NewScrapeSource(fetcher civicmeet.Fetcher, cfg *civicmeet.Config, limiter civicmeet.DomainLimiter, logger *slog.Logger) *ScrapeSource {
	return &ScrapeSource{
		fetcher: fetcher,
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}
}

// Name identifies the backend in logs.
func (s *ScrapeSource) Name() string {
	return s.cfg.SourceID
}

// ListEvents scrapes every month the window touches, collects candidate
// detail-page URLs in sorted order, and parses each detail page into a raw
// record. Records dated outside the window are dropped.
func (s *ScrapeSource) ListEvents(ctx context.Context, window civicmeet.Window) ([]civicmeet.RawEvent, error) {
	// The visited set is scoped to one listing pass so repeated calls on
	// the same source start fresh.
	seen := bloom.NewSeen(expectedPages, 0.01)

	var candidates []string
	for _, month := range window.Months() {
		monthURL := fmt.Sprintf("%s?Year=%d&Month=%d", s.cfg.PortalBase, month.Year, int(month.Month))
		links, err := s.pageLinks(ctx, monthURL, seen)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.Warn("month index fetch failed", "source", s.Name(), "url", monthURL, "error", err)
			continue
		}
		candidates = append(candidates, links...)
	}

	// A client-rendered calendar serves an empty shell to plain HTTP; the
	// static listing page still carries the same detail links.
	if len(candidates) == 0 {
		listURL := s.cfg.PortalBase + fallbackListPath
		links, err := s.pageLinks(ctx, listURL, seen)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.Warn("fallback listing fetch failed", "source", s.Name(), "url", listURL, "error", err)
		}
		candidates = links
	}
	sort.Strings(candidates)

	var events []civicmeet.RawEvent
	for _, detailURL := range candidates {
		page, err := s.parseDetail(ctx, detailURL)
		if err != nil {
			if ctx.Err() != nil {
				return events, err
			}
			s.logger.Warn("detail page skipped", "source", s.Name(), "url", detailURL, "error", err)
			continue
		}
		if !window.Contains(page.Start) {
			continue
		}
		events = append(events, civicmeet.RawEvent{Kind: civicmeet.KindPage, Page: page})
	}
	return events, nil
}

// pageLinks fetches one index page and returns the detail-page URLs it
// links to, absolutized and deduplicated against pages already collected.
func (s *ScrapeSource) pageLinks(ctx context.Context, pageURL string, seen *bloom.Seen) ([]string, error) {
	if err := s.limiter.Wait(ctx, host(pageURL)); err != nil {
		return nil, err
	}
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "parsing index page: %v", err)
	}

	var links []string
	collect := func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || !strings.Contains(href, "Meeting") {
			return
		}
		abs := civicmeet.AbsoluteURL(s.cfg.PortalBase, href)
		if abs == "" || seen.Visit(abs) {
			return
		}
		links = append(links, abs)
	}
	// Typical portal patterns first, then any anchor carrying an explicit
	// meeting id.
	doc.Find("a[href*='Meeting?Id'], a[href*='Meeting?']").Each(collect)
	doc.Find("a[href*='Meeting?Id=']").Each(collect)
	return links, nil
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
