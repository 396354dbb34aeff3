package ical_test

import (
	"strings"
	"testing"
	"time"

	"github.com/civicmeet/civicmeet"
	"github.com/civicmeet/civicmeet/ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_Encode(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)

	agenda := "https://example.org/agenda.pdf"
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, loc)
	meetings := []*civicmeet.Meeting{
		{
			UID:       "abc123@api-example",
			Title:     "Regular Meeting",
			Body:      "City Council",
			Start:     start,
			End:       start.Add(2 * time.Hour),
			Location:  "Council Chambers",
			AgendaURL: &agenda,
			DetailURL: "https://example.org/event/1",
		},
		{
			UID:       "def456@api-example",
			Title:     "Budget Hearing",
			Start:     start.AddDate(0, 0, 1),
			End:       start.AddDate(0, 0, 1).Add(time.Hour),
			DetailURL: "https://example.org/event/2",
		},
	}

	out, err := ical.NewEncoder(loc).Encode(meetings)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+ical.ProductID)
	assert.Contains(t, out, "UID:abc123@api-example")
	assert.Contains(t, out, "UID:def456@api-example")
	assert.Contains(t, out, "DTSTART;TZID=America/Detroit:20250301T120000")
	assert.Contains(t, out, "DTEND;TZID=America/Detroit:20250301T140000")
	assert.Contains(t, out, "SUMMARY:City Council: Regular Meeting")
	assert.Contains(t, out, "LOCATION:Council Chambers")
	assert.Contains(t, out, "STATUS:CONFIRMED")
	assert.Contains(t, out, "Agenda: https://example.org/agenda.pdf")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
}

func TestParseEvent_RoundTrip(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)

	start := time.Date(2025, 3, 1, 18, 30, 0, 0, loc)
	meetings := []*civicmeet.Meeting{{
		UID:       "rt@api-example",
		Title:     "Planning Commission",
		Start:     start,
		End:       start.Add(90 * time.Minute),
		Location:  "Room 205",
		DetailURL: "https://example.org/event/9",
	}}

	out, err := ical.NewEncoder(loc).Encode(meetings)
	require.NoError(t, err)

	ev, err := ical.ParseEvent(out, loc)
	require.NoError(t, err)
	assert.True(t, ev.Start.Equal(start))
	assert.True(t, ev.End.Equal(start.Add(90*time.Minute)))
	assert.Equal(t, "Planning Commission", ev.Summary)
	assert.Equal(t, "Room 205", ev.Location)
}

func TestParseEvent_NotCalendar(t *testing.T) {
	t.Parallel()

	_, err := ical.ParseEvent("<html><body>error</body></html>", time.UTC)
	assert.Equal(t, civicmeet.EINVALID, civicmeet.ErrorCode(err))
}

func TestParseEvent_NoEvents(t *testing.T) {
	t.Parallel()

	data := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\nEND:VCALENDAR\r\n"
	_, err := ical.ParseEvent(data, time.UTC)
	assert.Equal(t, civicmeet.ENOTFOUND, civicmeet.ErrorCode(err))
}

func TestParseEvent_FloatingTimeUsesLocation(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)

	data := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:float@test",
		"DTSTAMP:20250301T000000Z",
		"DTSTART:20250301T190000",
		"SUMMARY:Zoning Board",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"

	ev, err := ical.ParseEvent(data, loc)
	require.NoError(t, err)
	assert.Equal(t, "America/Detroit", ev.Start.Location().String())
	assert.Equal(t, 19, ev.Start.Hour())
}
