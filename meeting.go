package civicmeet

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultDuration is assumed when a backend omits or sentinels the end time.
const DefaultDuration = 2 * time.Hour

// Meeting is the canonical, backend-agnostic representation of one public
// meeting. It is created once per raw source record by the normalizer,
// mutated in place only by the enrichment step, and read-only afterward.
type Meeting struct {
	UID      string    `json:"uid"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	Timezone string    `json:"timezone"`
	Location string    `json:"location"`
	Address  string    `json:"address"`

	VirtualLink *string `json:"virtual_link"`
	AgendaURL   *string `json:"agenda_url"`
	MinutesURL  *string `json:"minutes_url"`
	DetailURL   string  `json:"detail_url"`
	Source      string  `json:"source"`

	PublishedFiles []PublishedFile `json:"published_files"`

	// Enrichment fields, populated only when document parsing is enabled.
	AgendaText  *string      `json:"agenda_text"`
	MinutesText *string      `json:"minutes_text"`
	AgendaItems []AgendaItem `json:"agenda_items"`
	Votes       []Vote       `json:"votes"`
}

// PublishedFile is one document attached to a meeting by the backend.
type PublishedFile struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AgendaItem is one enumerated item extracted from agenda text.
type AgendaItem struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// Vote types for roll-call records.
const (
	VoteYea = "yea"
	VoteNay = "nay"
)

// Vote is one roll-call span extracted from minutes text. Multiple spans of
// the same type in one document produce multiple Vote records.
type Vote struct {
	VoteType string   `json:"vote_type"`
	Voters   []string `json:"voters"`
}

// Validate returns an error if the meeting is missing required fields.
func (m *Meeting) Validate() error {
	if m.UID == "" {
		return Errorf(EINVALID, "meeting UID required")
	}
	if m.Start.IsZero() {
		return Errorf(EINVALID, "meeting start time required")
	}
	return nil
}

// Summary returns the display summary used by feed encoders and renderers:
// "{body}: {title}", or the bare title when body is empty.
func (m *Meeting) Summary() string {
	if m.Body != "" {
		return m.Body + ": " + m.Title
	}
	return m.Title
}

// MeetingUID derives the stable identifier for a meeting. The same body,
// start instant, backend event ID, and detail URL always produce the same
// UID, so re-running the pipeline over unchanged source data is idempotent.
func MeetingUID(body string, start time.Time, eventID, detailURL, sourceID string) string {
	src := fmt.Sprintf("%s|%s|%s|%s", body, start.UTC().Format(time.RFC3339), eventID, detailURL)
	sum := sha1.Sum([]byte(src))
	return hex.EncodeToString(sum[:]) + "@" + sourceID
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses all runs of whitespace to single spaces and trims the
// result. Backends pad fields with newlines and tab runs freely.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
