package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/civicmeet/civicmeet"
	cmhttp "github.com/civicmeet/civicmeet/http"
	"github.com/civicmeet/civicmeet/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarSource_ListEvents(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var queries []map[string]string

	mux := nethttp.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/GetMeetings", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		require.Equal(t, nethttp.MethodPost, r.Method)

		var q map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()

		if q["start"] == "2025-03-01" {
			fmt.Fprint(w, `{"data":[
				{"id":"m1","committee":"City Council","start":"2025/03/10 18:00:00","end":"2025/03/10 20:00:00"},
				{"id":"m2","committee":"Parks Board","start":"2025/03/01 09:00:00"}
			]}`)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	})

	cfg, err := civicmeet.NewConfig("calendar", server.URL, server.URL, "UTC")
	require.NoError(t, err)

	source := cmhttp.NewCalendarSource(cmhttp.NewClient(), cfg, &mock.DomainLimiter{}, slog.New(slog.DiscardHandler))
	window := civicmeet.Window{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	}

	events, err := source.ListEvents(context.Background(), window)
	require.NoError(t, err)

	// One query per target month, carrying the month bounds.
	require.Len(t, queries, 2)
	assert.Equal(t, map[string]string{"start": "2025-03-01", "end": "2025-03-31"}, queries[0])
	assert.Equal(t, map[string]string{"start": "2025-04-01", "end": "2025-04-30"}, queries[1])

	require.Len(t, events, 2)
	assert.Equal(t, civicmeet.KindCalendar, events[0].Kind)
	assert.Equal(t, "m1", events[0].Calendar.ID)
	assert.Equal(t, "m2", events[1].Calendar.ID)
}

func TestCalendarSource_FilterOutsideWindow(t *testing.T) {
	t.Parallel()

	mux := nethttp.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/GetMeetings", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `{"data":[
			{"id":"in","committee":"Council","start":"2025/03/15 10:00:00"},
			{"id":"out","committee":"Council","start":"2025/03/02 10:00:00"}
		]}`)
	})

	cfg, err := civicmeet.NewConfig("calendar", server.URL, server.URL, "UTC")
	require.NoError(t, err)

	source := cmhttp.NewCalendarSource(cmhttp.NewClient(), cfg, &mock.DomainLimiter{}, slog.New(slog.DiscardHandler))
	window := civicmeet.Window{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	events, err := source.ListEvents(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "in", events[0].Calendar.ID)
}

func TestCalendarSource_MonthFailureSkipped(t *testing.T) {
	t.Parallel()

	mux := nethttp.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	var calls int
	var mu sync.Mutex
	mux.HandleFunc("/GetMeetings", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(nethttp.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"ok","committee":"Council","start":"2025/04/10 10:00:00"}]}`)
	})

	cfg, err := civicmeet.NewConfig("calendar", server.URL, server.URL, "UTC")
	require.NoError(t, err)

	source := cmhttp.NewCalendarSource(cmhttp.NewClient(), cfg, &mock.DomainLimiter{}, slog.New(slog.DiscardHandler))
	window := civicmeet.Window{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	}

	events, err := source.ListEvents(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].Calendar.ID)
}
