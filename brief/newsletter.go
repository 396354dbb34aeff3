package brief

import (
	"fmt"
	"strings"

	"github.com/civicmeet/civicmeet"
)

// Newsletter windows around "now".
const (
	reviewDays  = 7
	previewDays = 14
)

// Newsletter renders the weekly dispatch: minutes links for the past
// week's meetings and an agenda preview of the next two weeks.
func (g *Generator) Newsletter(meetings []*civicmeet.Meeting) string {
	now := g.Now().In(g.Location)
	weekAgo := now.AddDate(0, 0, -reviewDays)
	twoWeeksAhead := now.AddDate(0, 0, previewDays)

	var past, upcoming []*civicmeet.Meeting
	for _, m := range meetings {
		start := m.Start.In(g.Location)
		switch {
		case !start.Before(weekAgo) && start.Before(now):
			past = append(past, m)
		case !start.Before(now) && !start.After(twoWeeksAhead):
			upcoming = append(upcoming, m)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 🏛️ %s Meeting Dispatch\n", g.Source)
	fmt.Fprintf(&b, "**Edition:** %s | *Your weekly guide to local governance.*\n\n---\n\n", now.Format("Jan 02, 2006"))

	b.WriteString("## 🗓️ The Week in Review\n")
	if len(past) == 0 {
		b.WriteString("No meetings were recorded in the past week.\n")
	}
	for _, m := range past {
		fmt.Fprintf(&b, "* **%s (%s):**\n", m.Body, m.Start.In(g.Location).Format("Jan 02"))
		if m.MinutesURL != nil {
			fmt.Fprintf(&b, "    * [📄 View Minutes (PDF)](%s)\n", *m.MinutesURL)
		}
	}

	b.WriteString("\n---\n\n## 📅 Upcoming Preview\n")
	if len(upcoming) == 0 {
		b.WriteString("No upcoming meetings scheduled for the next two weeks.\n")
	}
	for _, m := range upcoming {
		start := m.Start.In(g.Location)
		fmt.Fprintf(&b, "### %s\n", start.Format("Monday, January 02"))
		fmt.Fprintf(&b, "* **%s (%s)**\n", m.Body, start.Format("03:04 PM"))
		if m.Location != "" {
			fmt.Fprintf(&b, "    * *Location:* %s\n", m.Location)
		}
		if m.AgendaURL != nil {
			fmt.Fprintf(&b, "    * [📄 Meeting Agenda (PDF)](%s)\n", *m.AgendaURL)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n## 📁 Resources\n")
	fmt.Fprintf(&b, "* [Official Events Portal](%s)\n", g.Portal)
	return b.String()
}
