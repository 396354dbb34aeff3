package ical

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/civicmeet/civicmeet"
	"github.com/emersion/go-ical"
)

// FeedEvent is the subset of VEVENT fields a portal's per-meeting .ics
// resource reliably carries.
type FeedEvent struct {
	Start    time.Time
	End      time.Time
	Summary  string
	Location string
}

// ParseEvent returns the first VEVENT of the given iCalendar payload.
// Floating times are interpreted in loc.
func ParseEvent(data string, loc *time.Location) (*FeedEvent, error) {
	if !strings.HasPrefix(strings.TrimSpace(data), "BEGIN:VCALENDAR") {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "payload is not an iCalendar document")
	}

	dec := ical.NewDecoder(strings.NewReader(data))
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, civicmeet.Errorf(civicmeet.EINVALID, "decoding calendar: %v", err)
		}
		for _, child := range cal.Children {
			if child.Name != ical.CompEvent {
				continue
			}
			return eventFields(child, loc)
		}
	}
	return nil, civicmeet.Errorf(civicmeet.ENOTFOUND, "calendar contains no events")
}

func eventFields(comp *ical.Component, loc *time.Location) (*FeedEvent, error) {
	ev := &FeedEvent{}

	start := comp.Props.Get(ical.PropDateTimeStart)
	if start == nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "event has no start time")
	}
	t, err := start.DateTime(loc)
	if err != nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "parsing event start: %v", err)
	}
	ev.Start = t

	if end := comp.Props.Get(ical.PropDateTimeEnd); end != nil {
		if t, err := end.DateTime(loc); err == nil {
			ev.End = t
		}
	}
	if p := comp.Props.Get(ical.PropSummary); p != nil {
		ev.Summary = civicmeet.CleanText(p.Value)
	}
	if p := comp.Props.Get(ical.PropLocation); p != nil {
		ev.Location = civicmeet.CleanText(p.Value)
	}
	return ev, nil
}
