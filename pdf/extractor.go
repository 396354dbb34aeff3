// Package pdf extracts plain text from agenda and minutes documents.
package pdf

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/civicmeet/civicmeet"
	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF")

// Extractor downloads PDF documents and extracts their text. Document
// parsing never fails a crawl: any problem is logged and reported as a
// missing extraction.
type Extractor struct {
	downloader civicmeet.Downloader
	logger     *slog.Logger
}

// NewExtractor creates an Extractor backed by the given downloader.
func NewExtractor(downloader civicmeet.Downloader, logger *slog.Logger) *Extractor {
	return &Extractor{downloader: downloader, logger: logger}
}

// FetchExtract downloads url and returns its text content. ok is false
// when the document could not be fetched or is not a parseable PDF.
func (e *Extractor) FetchExtract(ctx context.Context, url string) (text string, ok bool) {
	data, contentType, err := e.downloader.Download(ctx, url)
	if err != nil {
		e.logger.Warn("document download failed", "url", url, "error", err)
		return "", false
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		e.logger.Warn("document is not a PDF", "url", url, "content_type", contentType)
		return "", false
	}

	text, err = extractText(data)
	if err != nil {
		e.logger.Warn("document text extraction failed", "url", url, "error", err)
		return "", false
	}
	return text, true
}

// extractText recovers from reader panics; the pdf library panics on some
// malformed cross-reference tables.
func extractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = civicmeet.Errorf(civicmeet.EINVALID, "malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", civicmeet.Errorf(civicmeet.EINVALID, "reading pdf: %v", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

var _ civicmeet.TextExtractor = (*Extractor)(nil)
