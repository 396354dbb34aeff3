package crawl_test

import (
	"testing"
	"time"

	"github.com/civicmeet/civicmeet"
	"github.com/civicmeet/civicmeet/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meeting(uid, title, body string, start time.Time) *civicmeet.Meeting {
	return &civicmeet.Meeting{UID: uid, Title: title, Body: body, Start: start}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	in := []*civicmeet.Meeting{
		meeting("a", "Regular Meeting", "City Council", start),
		meeting("b", "REGULAR MEETING", "city council", start),
		meeting("c", "Regular Meeting", "Planning Commission", start),
	}

	out := crawl.Dedupe(in, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].UID, "case-folded duplicate should lose to the first occurrence")
	assert.Equal(t, "c", out[1].UID)
}

func TestDedupe_SortsByStart(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	in := []*civicmeet.Meeting{
		meeting("late", "A", "B", base.AddDate(0, 0, 5)),
		meeting("early", "A", "B", base.AddDate(0, 0, -5)),
		meeting("mid", "A", "C", base),
	}

	out := crawl.Dedupe(in, nil)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"early", "mid", "late"}, []string{out[0].UID, out[1].UID, out[2].UID})
}

func TestDedupe_Idempotent(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	in := []*civicmeet.Meeting{
		meeting("a", "Regular Meeting", "City Council", start),
		meeting("b", "Regular Meeting", "City Council", start),
		meeting("c", "Budget Hearing", "City Council", start.Add(time.Hour)),
	}

	once := crawl.Dedupe(in, nil)
	twice := crawl.Dedupe(once, nil)
	assert.Equal(t, once, twice)
}

func TestDedupe_CustomKeyFields(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	in := []*civicmeet.Meeting{
		meeting("a", "Formal Session", "City Council", start),
		meeting("b", "Special Session", "City Council", start),
	}

	// Keyed on body+start only, the differing titles no longer matter.
	out := crawl.Dedupe(in, []crawl.KeyField{crawl.KeyBody, crawl.KeyStart})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].UID)
}

func TestDedupe_SameInstantDifferentZones(t *testing.T) {
	t.Parallel()

	detroit, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)

	utc := time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)
	in := []*civicmeet.Meeting{
		meeting("a", "Regular Meeting", "City Council", utc),
		meeting("b", "Regular Meeting", "City Council", utc.In(detroit)),
	}

	out := crawl.Dedupe(in, nil)
	require.Len(t, out, 1)
}
