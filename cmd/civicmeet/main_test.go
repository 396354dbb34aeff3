package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := NewMain().Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_NoArgs(t *testing.T) {
	t.Parallel()

	_, _, err := runMain(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := runMain(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "crawl")
	assert.Contains(t, stdout, "brief")
	assert.Contains(t, stdout, "newsletter")
}

func TestMain_Crawl_InvalidTimezone(t *testing.T) {
	t.Parallel()

	_, _, err := runMain(t, "crawl", "api",
		"--api-base", "https://example.org/v1/",
		"--timezone", "Mars/Olympus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMain_Crawl_ScrapeEndToEnd(t *testing.T) {
	t.Parallel()

	// A meeting one week out so it always falls inside the default window.
	meetingDate := time.Now().AddDate(0, 0, 7)
	detailHTML := fmt.Sprintf(`<html><body>
<h1>CITY COUNCIL</h1>
<p>%s</p>
<div>Location: Council Chambers</div>
</body></html>`, meetingDate.Format("January 2, 2006")+", 10:00 AM")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("Year") != "":
			fmt.Fprint(w, `<html><body><a href="Meeting?Id=5">City Council</a></body></html>`)
		case strings.HasPrefix(r.URL.Path, "/Meeting"):
			fmt.Fprint(w, detailHTML)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	outDir := t.TempDir()
	stdout, _, err := runMain(t, "crawl", "scrape",
		"--portal-base", srv.URL,
		"--rps", "1000",
		"-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 1 meetings")

	jsonData, err := os.ReadFile(filepath.Join(outDir, "scrape-127-meetings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"body": "CITY COUNCIL"`)
	assert.Contains(t, string(jsonData), `"location": "Council Chambers"`)

	icsData, err := os.ReadFile(filepath.Join(outDir, "scrape-127-meetings.ics"))
	require.NoError(t, err)
	assert.Contains(t, string(icsData), "BEGIN:VCALENDAR")
	assert.Contains(t, string(icsData), "SUMMARY:CITY COUNCIL: Meeting")
}

const meetingsJSON = `[
  {
    "uid": "abc@api-macomb",
    "title": "Meeting",
    "body": "City Council",
    "start": "2025-03-12T10:00:00-04:00",
    "end": "2025-03-12T12:00:00-04:00",
    "all_day": false,
    "timezone": "America/Detroit",
    "location": "Council Chambers",
    "address": "",
    "virtual_link": null,
    "agenda_url": null,
    "minutes_url": null,
    "detail_url": "https://portal.example.com/event/1",
    "source": "api-macomb",
    "published_files": null,
    "agenda_text": null,
    "minutes_text": null,
    "agenda_items": null,
    "votes": null
  }
]`

func TestMain_BriefEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "macomb-meetings.json")
	require.NoError(t, os.WriteFile(input, []byte(meetingsJSON), 0644))

	outDir := filepath.Join(dir, "briefs")
	stdout, _, err := runMain(t, "brief", input, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 1 daily brief(s)")

	content, err := os.ReadFile(filepath.Join(outDir, "brief-2025-03-12.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Daily Meeting Brief: Wednesday, March 12, 2025")
	assert.Contains(t, string(content), "*Source: Macomb*")
	assert.Contains(t, string(content), "City Council")
}

func TestMain_Brief_DateFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "macomb-meetings.json")
	require.NoError(t, os.WriteFile(input, []byte(meetingsJSON), 0644))

	stdout, _, err := runMain(t, "brief", input, "-o", filepath.Join(dir, "briefs"), "--date", "2025-01-01")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 0 daily brief(s)")
}

func TestMain_NewsletterEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "macomb-meetings.json")
	require.NoError(t, os.WriteFile(input, []byte(meetingsJSON), 0644))

	output := filepath.Join(dir, "briefs", "newsletter.md")
	stdout, _, err := runMain(t, "newsletter", input,
		"--output", output,
		"--portal", "https://macombcomi.portal.example.com/")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated: "+output)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Macomb Meeting Dispatch")
	assert.Contains(t, string(content), "https://macombcomi.portal.example.com/")
}

func TestMain_Brief_MissingInput(t *testing.T) {
	t.Parallel()

	_, _, err := runMain(t, "brief", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
