package civicmeet

import (
	"context"
	"time"
)

// SourceKind identifies the protocol a raw event was collected through.
type SourceKind string

// One kind per adapter protocol.
const (
	KindAPI      SourceKind = "api"      // paginated REST-like API
	KindCalendar SourceKind = "calendar" // per-month AJAX endpoint
	KindPage     SourceKind = "page"     // scraped HTML detail page
)

// RawEvent is a backend-native event record prior to normalization,
// represented as a tagged variant with one case per adapter protocol.
// Exactly one of the payload fields is non-nil, matching Kind.
type RawEvent struct {
	Kind     SourceKind
	API      *APIEvent
	Calendar *CalendarEvent
	Page     *PageEvent
}

// RawFile is a document reference as published by a backend. URLs may be
// relative to the portal base.
type RawFile struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// APIEvent is the wire shape of one event from the paginated API backend.
// Timestamps are ISO 8601 strings; meetingEndTime may carry the
// 1900-01-01T00:00:00Z sentinel for "not set".
type APIEvent struct {
	ID               int64       `json:"id"`
	EventName        string      `json:"eventName"`
	EventDescription string      `json:"eventDescription"`
	CategoryName     string      `json:"categoryName"`
	EventDate        string      `json:"eventDate"`
	MeetingEndTime   string      `json:"meetingEndTime"`
	EventLocation    APILocation `json:"eventLocation"`
	PublishedFiles   []RawFile   `json:"publishedFiles"`
	ExternalMediaURL string      `json:"externalMediaUrl"`
}

// APILocation is the structured address attached to an API event.
type APILocation struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

// CalendarEvent is the wire shape of one event from the per-month AJAX
// backend. Start and End are slash-delimited local datetimes
// ("2006/01/02 15:04:05").
type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Committee string    `json:"committee"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Location  string    `json:"location"`
	Link      string    `json:"link"`
	Documents []RawFile `json:"documents"`
}

// PageEvent holds fields already extracted from a scraped HTML detail page.
// Start and End are zoned when the page carried an embedded calendar link,
// zero when no usable time was found.
type PageEvent struct {
	DetailURL   string
	MeetingID   string
	Title       string
	Body        string
	Start       time.Time
	End         time.Time
	Location    string
	AgendaURL   string
	MinutesURL  string
	VirtualLink string
}

// Source yields raw per-event records for a date window. Implementations
// must recover from per-record and per-page failures internally; ListEvents
// returns an error only when the backend produced nothing usable at all.
type Source interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string

	// ListEvents returns all raw records within the window, inclusive of
	// both bounds.
	ListEvents(ctx context.Context, window Window) ([]RawEvent, error)
}

// Fetcher retrieves text content (HTML, calendar data) from URLs.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Downloader retrieves binary content along with its declared content type.
type Downloader interface {
	Download(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// TextExtractor downloads a linked document and extracts its plain text.
// Extraction is best-effort: any failure reports ok=false, never an error.
type TextExtractor interface {
	FetchExtract(ctx context.Context, url string) (text string, ok bool)
}

// DomainLimiter provides per-domain request pacing.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
