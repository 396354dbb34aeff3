// Package ical encodes Meeting lists as iCalendar feeds and parses the
// per-meeting .ics resources some portals embed in their detail pages.
package ical

import (
	"strings"
	"time"

	"github.com/civicmeet/civicmeet"
	"github.com/emersion/go-ical"
)

// ProductID identifies the feed generator.
const ProductID = "-//civicmeet//EN"

// Encoder serializes Meetings into a single VCALENDAR feed.
type Encoder struct {
	loc *time.Location

	// now returns the generation timestamp; overridable in tests.
	now func() time.Time
}

// NewEncoder creates an Encoder that localizes event times to loc before
// encoding, so no component ever carries a zone-naive value.
func NewEncoder(loc *time.Location) *Encoder {
	return &Encoder{loc: loc, now: time.Now}
}

// Encode renders one VEVENT per meeting with a stable UID, zoned start and
// end, a "{body}: {title}" summary, any known document links in the
// description, and a fixed confirmed status.
func (e *Encoder) Encode(meetings []*civicmeet.Meeting) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	stamp := e.now().UTC()

	for _, m := range meetings {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, m.UID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, m.Start.In(e.loc))
		event.Props.SetDateTime(ical.PropDateTimeEnd, m.End.In(e.loc))
		event.Props.SetText(ical.PropSummary, m.Summary())
		if m.Location != "" {
			event.Props.SetText(ical.PropLocation, m.Location)
		}
		event.Props.SetText(ical.PropDescription, description(m))
		if m.DetailURL != "" {
			event.Props.SetText(ical.PropURL, m.DetailURL)
		}
		event.Props.SetText(ical.PropStatus, "CONFIRMED")
		cal.Children = append(cal.Children, event.Component)
	}

	var sb strings.Builder
	if err := ical.NewEncoder(&sb).Encode(cal); err != nil {
		return "", civicmeet.Errorf(civicmeet.EINTERNAL, "encoding calendar feed: %v", err)
	}
	return sb.String(), nil
}

func description(m *civicmeet.Meeting) string {
	var lines []string
	if m.AgendaURL != nil {
		lines = append(lines, "Agenda: "+*m.AgendaURL)
	}
	if m.MinutesURL != nil {
		lines = append(lines, "Minutes: "+*m.MinutesURL)
	}
	if m.VirtualLink != nil {
		lines = append(lines, "Virtual: "+*m.VirtualLink)
	}
	lines = append(lines, "Details: "+m.DetailURL)
	return strings.Join(lines, "\n")
}
