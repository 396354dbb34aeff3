package main

import (
	"context"
	"io"
)

// Dependencies holds execution context shared by all commands.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl      CrawlCmd      `cmd:"" help:"Crawl a backend and write meeting records and a calendar feed"`
	Brief      BriefCmd      `cmd:"" help:"Generate daily meeting briefs from crawled records"`
	Newsletter NewsletterCmd `cmd:"" help:"Generate the weekly newsletter from crawled records"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Backend      string  `arg:"" enum:"api,calendar,scrape" help:"Backend protocol: api, calendar or scrape"`
	APIBase      string  `name:"api-base" help:"Base URL of the events API (api and calendar backends)"`
	PortalBase   string  `name:"portal-base" help:"Base URL of the public portal"`
	Timezone     string  `default:"America/Detroit" help:"IANA timezone of the municipality"`
	MonthsBehind int     `default:"1" help:"How many months behind to crawl"`
	MonthsAhead  int     `default:"2" help:"How many months ahead to crawl"`
	ParseDocs    bool    `name:"parse-documents" help:"Fetch agendas and minutes and parse items and votes"`
	Concurrency  int     `short:"c" default:"4" help:"Concurrent document fetch limit"`
	RPS          float64 `default:"3" help:"Max requests per second per host"`
	OutDir       string  `short:"o" default:"data" help:"Output directory"`
}

// BriefCmd is the "brief" subcommand.
type BriefCmd struct {
	Input    string `arg:"" help:"Path to a meeting records JSON file"`
	OutDir   string `short:"o" default:"briefs" help:"Output directory for briefs"`
	Date     string `help:"Generate the brief for one date only (YYYY-MM-DD)"`
	Timezone string `default:"America/Detroit" help:"IANA timezone for display times"`
}

// NewsletterCmd is the "newsletter" subcommand.
type NewsletterCmd struct {
	Input    string `arg:"" help:"Path to a meeting records JSON file"`
	Output   string `default:"briefs/newsletter.md" help:"Output file path"`
	Portal   string `help:"Portal URL linked from the resources section"`
	Timezone string `default:"America/Detroit" help:"IANA timezone for display times"`
}
