package mock

import (
	"context"

	"github.com/civicmeet/civicmeet"
)

var (
	_ civicmeet.Fetcher       = (*Fetcher)(nil)
	_ civicmeet.Downloader    = (*Downloader)(nil)
	_ civicmeet.TextExtractor = (*TextExtractor)(nil)
	_ civicmeet.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of civicmeet.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// Downloader is a mock implementation of civicmeet.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, string, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, string, error) {
	return d.DownloadFn(ctx, url)
}

// TextExtractor is a mock implementation of civicmeet.TextExtractor.
type TextExtractor struct {
	FetchExtractFn func(ctx context.Context, url string) (string, bool)
}

func (e *TextExtractor) FetchExtract(ctx context.Context, url string) (string, bool) {
	return e.FetchExtractFn(ctx, url)
}

// DomainLimiter is a mock implementation of civicmeet.DomainLimiter.
// The zero value never blocks.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
