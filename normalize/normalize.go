// Package normalize maps backend-native raw event records to canonical
// Meetings. One mapping function exists per adapter protocol; all of them
// share the same zone-localization, default-duration, and UID rules.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/civicmeet/civicmeet"
)

// endSentinel is the "not set" end-time value emitted by the paginated API.
const endSentinel = "1900-01-01T00:00:00Z"

// genericTitle is used when a backend offers no title finer than the body.
const genericTitle = "Meeting"

// File type labels backends attach to published documents.
const (
	fileTypeAgenda  = "Agenda"
	fileTypeMinutes = "Minutes"
)

// Normalizer builds Meetings from raw event records.
type Normalizer struct {
	cfg *civicmeet.Config
}

// New returns a Normalizer bound to the given configuration.
func New(cfg *civicmeet.Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Meeting maps a raw record to a canonical Meeting. A record without a
// usable start date returns an EINVALID error and should be skipped; all
// other missing fields degrade to empty values.
func (n *Normalizer) Meeting(raw civicmeet.RawEvent) (*civicmeet.Meeting, error) {
	switch raw.Kind {
	case civicmeet.KindAPI:
		return n.fromAPI(raw.API)
	case civicmeet.KindCalendar:
		return n.fromCalendar(raw.Calendar)
	case civicmeet.KindPage:
		return n.fromPage(raw.Page)
	default:
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "unknown raw event kind %q", raw.Kind)
	}
}

func (n *Normalizer) fromAPI(ev *civicmeet.APIEvent) (*civicmeet.Meeting, error) {
	if ev == nil || ev.ID == 0 {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "API event missing id")
	}

	start, err := n.parseISO(ev.EventDate)
	if err != nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "API event %d has no usable start date: %v", ev.ID, err)
	}

	end := start.Add(civicmeet.DefaultDuration)
	if ev.MeetingEndTime != "" && ev.MeetingEndTime != endSentinel {
		if t, err := n.parseISO(ev.MeetingEndTime); err == nil {
			end = t
		}
	}

	body := civicmeet.CleanText(ev.CategoryName)
	if body == "" {
		body = civicmeet.CleanText(ev.EventName)
	}

	eventID := strconv.FormatInt(ev.ID, 10)
	detailURL := n.cfg.PortalBase + "event/" + eventID

	files, agendaURL, minutesURL := n.classifyFiles(ev.PublishedFiles)

	m := &civicmeet.Meeting{
		UID:            civicmeet.MeetingUID(body, start, eventID, detailURL, n.cfg.SourceID),
		Title:          genericTitle,
		Body:           body,
		Start:          start,
		End:            end,
		Timezone:       n.cfg.Timezone,
		Location:       joinLocation(ev.EventLocation),
		Address:        civicmeet.CleanText(ev.EventDescription),
		AgendaURL:      agendaURL,
		MinutesURL:     minutesURL,
		DetailURL:      detailURL,
		Source:         n.cfg.SourceID,
		PublishedFiles: files,
	}
	if ev.ExternalMediaURL != "" {
		m.VirtualLink = strPtr(civicmeet.CleanText(ev.ExternalMediaURL))
	}
	return m, nil
}

func (n *Normalizer) fromCalendar(ev *civicmeet.CalendarEvent) (*civicmeet.Meeting, error) {
	if ev == nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "calendar event missing payload")
	}

	start, err := n.parseSlash(ev.Start)
	if err != nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "calendar event %q has no usable start date: %v", ev.ID, err)
	}

	end := start.Add(civicmeet.DefaultDuration)
	if t, err := n.parseSlash(ev.End); err == nil {
		end = t
	}

	body := civicmeet.CleanText(ev.Committee)
	if body == "" {
		body = civicmeet.CleanText(ev.Title)
	}

	eventID := ev.ID
	if eventID == "" {
		eventID = ev.Link
	}
	detailURL := civicmeet.AbsoluteURL(n.cfg.PortalBase, ev.Link)
	if detailURL == "" {
		detailURL = n.cfg.PortalBase
	}

	files, agendaURL, minutesURL := n.classifyFiles(ev.Documents)

	return &civicmeet.Meeting{
		UID:            civicmeet.MeetingUID(body, start, eventID, detailURL, n.cfg.SourceID),
		Title:          genericTitle,
		Body:           body,
		Start:          start,
		End:            end,
		Timezone:       n.cfg.Timezone,
		Location:       civicmeet.CleanText(ev.Location),
		AgendaURL:      agendaURL,
		MinutesURL:     minutesURL,
		DetailURL:      detailURL,
		Source:         n.cfg.SourceID,
		PublishedFiles: files,
	}, nil
}

func (n *Normalizer) fromPage(ev *civicmeet.PageEvent) (*civicmeet.Meeting, error) {
	if ev == nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "page event missing payload")
	}
	if ev.Start.IsZero() {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "page %s has no usable start date", ev.DetailURL)
	}

	start := ev.Start.In(n.cfg.Location)
	end := start.Add(civicmeet.DefaultDuration)
	if !ev.End.IsZero() {
		end = ev.End.In(n.cfg.Location)
	}

	title := civicmeet.CleanText(ev.Title)
	if title == "" {
		title = genericTitle
	}
	body := civicmeet.CleanText(ev.Body)

	m := &civicmeet.Meeting{
		UID:       civicmeet.MeetingUID(body, start, ev.MeetingID, ev.DetailURL, n.cfg.SourceID),
		Title:     title,
		Body:      body,
		Start:     start,
		End:       end,
		Timezone:  n.cfg.Timezone,
		Location:  civicmeet.CleanText(ev.Location),
		DetailURL: ev.DetailURL,
		Source:    n.cfg.SourceID,
	}
	if ev.AgendaURL != "" {
		m.AgendaURL = strPtr(civicmeet.AbsoluteURL(n.cfg.PortalBase, ev.AgendaURL))
	}
	if ev.MinutesURL != "" {
		m.MinutesURL = strPtr(civicmeet.AbsoluteURL(n.cfg.PortalBase, ev.MinutesURL))
	}
	if ev.VirtualLink != "" {
		m.VirtualLink = strPtr(ev.VirtualLink)
	}
	return m, nil
}

// classifyFiles absolutizes published file URLs and picks out the first
// agenda and first minutes document; later files of the same type are kept
// in the list but never override the first match.
func (n *Normalizer) classifyFiles(raw []civicmeet.RawFile) ([]civicmeet.PublishedFile, *string, *string) {
	var files []civicmeet.PublishedFile
	var agendaURL, minutesURL *string

	for _, f := range raw {
		if f.URL == "" {
			continue
		}
		abs := civicmeet.AbsoluteURL(n.cfg.PortalBase, f.URL)
		files = append(files, civicmeet.PublishedFile{
			Type: f.Type,
			Name: f.Name,
			URL:  abs,
		})
		switch f.Type {
		case fileTypeAgenda:
			if agendaURL == nil {
				agendaURL = strPtr(abs)
			}
		case fileTypeMinutes:
			if minutesURL == nil {
				minutesURL = strPtr(abs)
			}
		}
	}
	return files, agendaURL, minutesURL
}

// parseISO parses an ISO 8601 timestamp and localizes it to the configured
// zone. A zone-naive value is interpreted as already local.
func (n *Normalizer) parseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, civicmeet.Errorf(civicmeet.EINVALID, "empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(n.cfg.Location), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, n.cfg.Location)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// parseSlash parses the AJAX backend's slash-delimited local datetime.
func (n *Normalizer) parseSlash(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, civicmeet.Errorf(civicmeet.EINVALID, "empty timestamp")
	}
	return time.ParseInLocation("2006/01/02 15:04:05", s, n.cfg.Location)
}

func joinLocation(loc civicmeet.APILocation) string {
	var parts []string
	for _, p := range []string{loc.Address1, loc.City, loc.State, loc.ZipCode} {
		if p = civicmeet.CleanText(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func strPtr(s string) *string {
	return &s
}
