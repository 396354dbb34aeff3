// Package brief renders human-readable markdown digests from crawled
// meeting data: one brief per meeting day, plus a weekly newsletter.
package brief

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/civicmeet/civicmeet"
)

// Rendering limits keep briefs scannable.
const (
	maxAgendaItems  = 10
	maxItemChars    = 150
	maxVoteLines    = 3
	maxVotersListed = 5
)

// Generator renders digests for one source.
type Generator struct {
	// Source is the display name used in headers, e.g. "Macomb".
	Source string

	// Portal is linked from the newsletter's resources section.
	Portal string

	Location *time.Location

	// Now supplies the generation timestamp; overridable in tests.
	Now func() time.Time
}

// NewGenerator builds a Generator from the crawl configuration.
func NewGenerator(cfg *civicmeet.Config) *Generator {
	return &Generator{
		Source:   displayName(cfg.SourceID),
		Portal:   cfg.PortalBase,
		Location: cfg.Location,
		Now:      time.Now,
	}
}

// Brief is one rendered daily digest.
type Brief struct {
	Date     string // YYYY-MM-DD
	Filename string
	Content  string
}

// DailyBriefs groups meetings by calendar date and renders one markdown
// brief per date, in ascending date order. Meetings within a day are
// ordered by start time.
func (g *Generator) DailyBriefs(meetings []*civicmeet.Meeting) []Brief {
	byDate := make(map[string][]*civicmeet.Meeting)
	for _, m := range meetings {
		date := m.Start.Format("2006-01-02")
		byDate[date] = append(byDate[date], m)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	briefs := make([]Brief, 0, len(dates))
	for _, date := range dates {
		day := byDate[date]
		sort.SliceStable(day, func(i, j int) bool { return day[i].Start.Before(day[j].Start) })
		briefs = append(briefs, Brief{
			Date:     date,
			Filename: "brief-" + date + ".md",
			Content:  g.dailyBrief(date, day),
		})
	}
	return briefs
}

func (g *Generator) dailyBrief(date string, meetings []*civicmeet.Meeting) string {
	day, _ := time.ParseInLocation("2006-01-02", date, g.Location)

	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Meeting Brief: %s\n", day.Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "*Source: %s*\n\n---\n\n", g.Source)

	fmt.Fprintf(&b, "## Summary\n**%d meeting(s) scheduled**\n\n", len(meetings))
	for i, m := range meetings {
		fmt.Fprintf(&b, "%d. **%s** - %s\n", i+1, m.Body, clockTime(m.Start))
	}
	b.WriteString("\n---\n\n## Meeting Details\n\n")

	for _, m := range meetings {
		b.WriteString(g.meetingBrief(m))
		b.WriteString("---\n\n")
	}

	b.WriteString("*This brief was automatically generated from official meeting data.*\n")
	fmt.Fprintf(&b, "*Generated: %s*\n", g.Now().In(g.Location).Format("2006-01-02 3:04 PM"))
	return b.String()
}

// meetingBrief renders one meeting's section: header, links, key agenda
// items and voting results, each list truncated to its display limit.
func (g *Generator) meetingBrief(m *civicmeet.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n", m.Body)
	fmt.Fprintf(&b, "**Time:** %s - %s\n", clockTime(m.Start), clockTime(m.End))
	if m.Location != "" {
		fmt.Fprintf(&b, "**Location:** %s\n", m.Location)
	}

	var links []string
	if m.AgendaURL != nil {
		links = append(links, fmt.Sprintf("[Agenda](%s)", *m.AgendaURL))
	}
	if m.MinutesURL != nil {
		links = append(links, fmt.Sprintf("[Minutes](%s)", *m.MinutesURL))
	}
	if m.DetailURL != "" {
		links = append(links, fmt.Sprintf("[Details](%s)", m.DetailURL))
	}
	if len(links) > 0 {
		fmt.Fprintf(&b, "**Documents:** %s\n", strings.Join(links, " • "))
	}
	b.WriteString("\n")

	if len(m.AgendaItems) > 0 {
		b.WriteString("#### 📋 Key Agenda Items\n")
		for _, item := range m.AgendaItems[:min(len(m.AgendaItems), maxAgendaItems)] {
			fmt.Fprintf(&b, "%s. %s\n", item.Number, truncate(civicmeet.CleanText(item.Text), maxItemChars))
		}
		if extra := len(m.AgendaItems) - maxAgendaItems; extra > 0 {
			fmt.Fprintf(&b, "\n*...and %d more items*\n", extra)
		}
		b.WriteString("\n")
	}

	if len(m.Votes) > 0 {
		b.WriteString("#### 🗳️ Voting Results\n")
		writeVotes(&b, "Approved", votesOfType(m.Votes, civicmeet.VoteYea), false)
		writeVotes(&b, "Opposed", votesOfType(m.Votes, civicmeet.VoteNay), true)
		b.WriteString("\n")
	}

	var stats []string
	if len(m.AgendaItems) > 0 {
		stats = append(stats, fmt.Sprintf("%d agenda items", len(m.AgendaItems)))
	}
	if len(m.Votes) > 0 {
		stats = append(stats, fmt.Sprintf("%d votes recorded", len(m.Votes)))
	}
	if m.AgendaText != nil {
		stats = append(stats, fmt.Sprintf("~%d words in agenda", len(strings.Fields(*m.AgendaText))))
	}
	if len(stats) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(stats, " • "))
	}
	return b.String()
}

func writeVotes(b *strings.Builder, label string, votes []civicmeet.Vote, leadingBlank bool) {
	if len(votes) == 0 {
		return
	}
	if leadingBlank {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "**%s (%d vote(s))**\n", label, len(votes))
	for _, v := range votes[:min(len(votes), maxVoteLines)] {
		voters := strings.Join(v.Voters[:min(len(v.Voters), maxVotersListed)], ", ")
		if extra := len(v.Voters) - maxVotersListed; extra > 0 {
			voters += fmt.Sprintf(" +%d more", extra)
		}
		fmt.Fprintf(b, "- %s\n", voters)
	}
}

func votesOfType(votes []civicmeet.Vote, voteType string) []civicmeet.Vote {
	var out []civicmeet.Vote
	for _, v := range votes {
		if v.VoteType == voteType {
			out = append(out, v)
		}
	}
	return out
}

// clockTime renders a time without a leading zero on the hour.
func clockTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// truncate cuts s to limit characters, ellipsis included, on rune
// boundaries so multi-byte text stays valid UTF-8.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// displayName turns a source ID like "api-macombcomi" into "Macombcomi".
func displayName(sourceID string) string {
	name := sourceID
	if i := strings.IndexByte(name, '-'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return sourceID
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
