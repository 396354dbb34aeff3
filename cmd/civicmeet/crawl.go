package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/civicmeet/civicmeet"
	"github.com/civicmeet/civicmeet/crawl"
	"github.com/civicmeet/civicmeet/fs"
	"github.com/civicmeet/civicmeet/goquery"
	cmhttp "github.com/civicmeet/civicmeet/http"
	"github.com/civicmeet/civicmeet/ical"
	"github.com/civicmeet/civicmeet/normalize"
	"github.com/civicmeet/civicmeet/pdf"
	cmslog "github.com/civicmeet/civicmeet/slog"
	"github.com/google/uuid"
)

// Run executes the crawl command: configuration is validated before any
// network activity, then the pipeline runs and both output artifacts are
// written.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := civicmeet.NewConfig(c.Backend, c.APIBase, c.PortalBase, c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid configuration: %s", civicmeet.ErrorMessage(err))
	}
	cfg.MonthsBehind = c.MonthsBehind
	cfg.MonthsAhead = c.MonthsAhead
	cfg.ParseDocuments = c.ParseDocs

	logger := slog.New(slog.NewTextHandler(deps.Stderr, nil)).With("run", uuid.NewString())

	client := cmhttp.NewClient()
	limiter := crawl.NewDomainLimiter(c.RPS)

	var source civicmeet.Source
	switch c.Backend {
	case "api":
		source = cmhttp.NewPagedSource(client, cfg, limiter, logger)
	case "calendar":
		source = cmhttp.NewCalendarSource(client, cfg, limiter, logger)
	case "scrape":
		source = goquery.NewScrapeSource(client, cfg, limiter, logger)
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	var extractor civicmeet.TextExtractor
	if cfg.ParseDocuments {
		extractor = cmslog.NewLoggingExtractor(pdf.NewExtractor(client, logger), logger)
	}

	crawler := &crawl.Crawler{
		Sources:     []civicmeet.Source{cmslog.NewLoggingSource(source, logger)},
		Normalizer:  normalize.New(cfg),
		Extractor:   extractor,
		Limiter:     limiter,
		Logger:      logger,
		Concurrency: c.Concurrency,
	}

	result, err := crawler.Run(deps.Ctx, cfg.Window(time.Now()))
	if err != nil {
		return err
	}

	feed, err := ical.NewEncoder(cfg.Location).Encode(result.Meetings)
	if err != nil {
		return err
	}

	writer := fs.NewWriter(c.OutDir)
	jsonName := cfg.SourceID + "-meetings.json"
	icsName := cfg.SourceID + "-meetings.ics"
	if err := writer.WriteMeetings(jsonName, result.Meetings); err != nil {
		return err
	}
	if err := writer.WriteFeed(icsName, feed); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d meetings to %s/%s and %s/%s\n",
		len(result.Meetings), c.OutDir, jsonName, c.OutDir, icsName)
	fmt.Fprintf(deps.Stdout, "Listed %d raw records: %d skipped, %d duplicates, %d enriched\n",
		result.Listed, result.Skipped, result.Duplicates, result.Enriched)
	return nil
}
