package civicmeet

import (
	"net/url"
	"strings"
	"time"
)

// Configuration defaults.
const (
	DefaultTimezone       = "America/Detroit"
	DefaultPageSize       = 100
	DefaultStopBufferDays = 7
	DefaultMonthsAhead    = 2
	DefaultMonthsBehind   = 1
)

// Config is the immutable configuration value threaded through every
// component. Construct it with NewConfig; an invalid timezone or base URL is
// a fatal configuration error reported before any network activity.
type Config struct {
	// APIBase is the base URL of the paginated API backend, with a
	// trailing slash.
	APIBase string

	// PortalBase is the base URL documents and detail pages resolve
	// against, with a trailing slash.
	PortalBase string

	// Timezone is the IANA zone name meetings are localized to.
	Timezone string

	// Location is the loaded zone for Timezone.
	Location *time.Location

	// SourceID identifies this backend in Meeting.Source and UID suffixes.
	SourceID string

	// MonthsBehind and MonthsAhead bound the crawl window around today.
	MonthsBehind int
	MonthsAhead  int

	// ParseDocuments enables the document fetch/extract enrichment step.
	ParseDocuments bool

	// PageSize is the page size requested from the paginated API.
	PageSize int

	// StopBufferDays is how many days before the window start the
	// descending paginated crawl keeps reading before stopping.
	StopBufferDays int
}

// NewConfig validates the inputs and returns a configuration with defaults
// applied. kind is a short backend label folded into the derived source ID.
func NewConfig(kind, apiBase, portalBase, timezone string) (*Config, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, Errorf(EINVALID, "unknown timezone %q", timezone)
	}

	apiBase, err = normalizeBase(apiBase)
	if err != nil {
		return nil, Errorf(EINVALID, "malformed API base URL: %v", err)
	}
	portalBase, err = normalizeBase(portalBase)
	if err != nil {
		return nil, Errorf(EINVALID, "malformed portal base URL: %v", err)
	}

	idBase := apiBase
	if idBase == "" {
		idBase = portalBase
	}

	return &Config{
		APIBase:        apiBase,
		PortalBase:     portalBase,
		Timezone:       timezone,
		Location:       loc,
		SourceID:       DeriveSourceID(kind, idBase),
		MonthsBehind:   DefaultMonthsBehind,
		MonthsAhead:    DefaultMonthsAhead,
		PageSize:       DefaultPageSize,
		StopBufferDays: DefaultStopBufferDays,
	}, nil
}

// Window returns the crawl window anchored at today.
func (c *Config) Window(today time.Time) Window {
	return NewWindow(today.In(c.Location), c.MonthsBehind, c.MonthsAhead)
}

// DeriveSourceID builds a stable backend identifier from a base URL,
// e.g. ("api", "https://macombcomi.api.example.com/v1/") → "api-macombcomi".
func DeriveSourceID(kind, base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return kind + "-meetings"
	}
	host := u.Hostname()
	if i := strings.IndexByte(host, '.'); i > 0 {
		return kind + "-" + host[:i]
	}
	return kind + "-" + host
}

func normalizeBase(base string) (string, error) {
	if base == "" {
		return "", nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "base URL %q must be http or https", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base, nil
}
