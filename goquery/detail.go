package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicmeet/civicmeet"
	"github.com/civicmeet/civicmeet/ical"
	"golang.org/x/net/html"
)

var (
	crumbSplitRe    = regexp.MustCompile(`[›>/]`)
	committeeRe     = regexp.MustCompile(`COMMITTEE|COMMISSION|COUNCIL`)
	textualDateRe   = regexp.MustCompile(`(?i)([A-Za-z]{3,9}\s+\d{1,2},\s+\d{4})[, ]+\s*(\d{1,2}:\d{2}\s*(?:AM|PM)?)`)
	isoDateRe       = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})[ T]+(\d{2}:\d{2})`)
	locationLabelRe = regexp.MustCompile(`(?i)location[:\s]*`)
)

// virtualHosts mark a link as a stream or video-conference location.
var virtualHosts = []string{"zoom.us", "teams.microsoft", "youtube.com", "facebook.com/live", "livestream"}

var textualDateLayouts = []string{
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"Jan 2, 2006 15:04",
}

// parseDetail fetches one detail page and extracts its fields through an
// ordered fallback chain: an embedded calendar link is authoritative for
// start, end and location; otherwise textual date patterns in the page
// body are matched.
func (s *ScrapeSource) parseDetail(ctx context.Context, detailURL string) (*civicmeet.PageEvent, error) {
	if err := s.limiter.Wait(ctx, host(detailURL)); err != nil {
		return nil, err
	}
	html, err := s.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, civicmeet.Errorf(civicmeet.EINVALID, "parsing detail page: %v", err)
	}

	page := &civicmeet.PageEvent{
		DetailURL: detailURL,
		MeetingID: meetingID(detailURL),
	}

	rawTitle := firstText(doc, "h1", ".meeting-title", ".page-title")
	page.Body = breadcrumbBody(doc)

	// Portals often put the committee name where the title belongs.
	if page.Body == "" && committeeRe.MatchString(strings.ToUpper(rawTitle)) {
		page.Body = rawTitle
	} else {
		page.Title = rawTitle
	}

	if ev := s.calendarEvent(ctx, doc); ev != nil {
		page.Start = ev.Start
		page.End = ev.End
		page.Location = ev.Location
	}
	if page.Start.IsZero() {
		page.Start = textualStart(joinedText(doc), s.cfg.Location)
	}
	if page.Start.IsZero() {
		return nil, civicmeet.Errorf(civicmeet.ENOTFOUND, "no start time found")
	}

	page.AgendaURL = s.firstLabeledLink(doc, "agenda")
	page.MinutesURL = s.firstLabeledLink(doc, "minutes")
	page.VirtualLink = virtualLink(doc)

	if page.Location == "" {
		page.Location = labeledLocation(doc)
	}
	return page, nil
}

// calendarEvent fetches the first embedded .ics link that yields a
// parseable calendar event. Every failure falls through to the next link.
func (s *ScrapeSource) calendarEvent(ctx context.Context, doc *goquery.Document) *ical.FeedEvent {
	var hrefs []string
	doc.Find("a[href$='.ics'], a[href*='AddToCalendar'], a[href*='.ics']").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, civicmeet.AbsoluteURL(s.cfg.PortalBase, href))
		}
	})

	for _, icsURL := range hrefs {
		if err := s.limiter.Wait(ctx, host(icsURL)); err != nil {
			return nil
		}
		data, err := s.fetcher.Fetch(ctx, icsURL)
		if err != nil || !strings.Contains(data, "BEGIN:VCALENDAR") {
			continue
		}
		ev, err := ical.ParseEvent(data, s.cfg.Location)
		if err != nil {
			continue
		}
		return ev
	}
	return nil
}

// firstLabeledLink returns the first anchor whose text contains label,
// case-insensitively, absolutized against the portal base.
func (s *ScrapeSource) firstLabeledLink(doc *goquery.Document, label string) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(sel.Text()), label) {
			return true
		}
		if href, ok := sel.Attr("href"); ok && href != "" {
			found = civicmeet.AbsoluteURL(s.cfg.PortalBase, href)
			return false
		}
		return true
	})
	return found
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := civicmeet.CleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// breadcrumbBody derives the governing body from the breadcrumb trail,
// preferring the second-to-last crumb (the last is the page itself).
func breadcrumbBody(doc *goquery.Document) string {
	crumb := doc.Find(".breadcrumb, nav.breadcrumb").First()
	if crumb.Length() == 0 {
		return ""
	}
	var parts []string
	for _, p := range crumbSplitRe.Split(crumb.Text(), -1) {
		if p = civicmeet.CleanText(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case len(parts) >= 2:
		return parts[len(parts)-2]
	case len(parts) == 1:
		return parts[0]
	}
	return ""
}

// joinedText returns the document's text with a space between text nodes.
// Selection.Text concatenates nodes with no separator, which glues adjacent
// elements together and breaks date matching on minified markup.
func joinedText(doc *goquery.Document) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// textualStart matches common date/time phrasings in the page text and
// localizes the result to loc. Returns the zero time when nothing matches.
func textualStart(text string, loc *time.Location) time.Time {
	if m := textualDateRe.FindStringSubmatch(text); m != nil {
		value := strings.ToUpper(civicmeet.CleanText(m[1] + " " + m[2]))
		for _, layout := range textualDateLayouts {
			if t, err := time.ParseInLocation(layout, value, loc); err == nil {
				return t
			}
		}
	}
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if t, err := time.ParseInLocation("2006-01-02 15:04", m[1]+" "+m[2], loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func virtualLink(doc *goquery.Document) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		lower := strings.ToLower(href)
		for _, h := range virtualHosts {
			if strings.Contains(lower, h) {
				found = href
				return false
			}
		}
		return true
	})
	return found
}

// labeledLocation finds the first paragraph-like element labeled
// "Location" and strips the label.
func labeledLocation(doc *goquery.Document) string {
	var found string
	doc.Find("p, div, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !locationLabelRe.MatchString(text) {
			return true
		}
		found = civicmeet.CleanText(locationLabelRe.ReplaceAllString(text, ""))
		return false
	})
	return found
}

// meetingID extracts the backend's numeric meeting identifier from a
// detail URL's query string.
func meetingID(detailURL string) string {
	u, err := url.Parse(detailURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if id := q.Get("Id"); id != "" {
		return id
	}
	return q.Get("id")
}
