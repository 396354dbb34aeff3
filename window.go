package civicmeet

import "time"

// Month is one calendar month targeted by a crawl.
type Month struct {
	Year  int
	Month time.Month
}

// Bounds returns the first and last day of the month.
func (m Month) Bounds() (first, last time.Time) {
	first = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// Window is an inclusive date window for a crawl. Start and End are
// date-granular: a record dated exactly on either bound is inside.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow anchors a window at today, reaching monthsBehind*30 days back
// and monthsAhead*30 days forward.
func NewWindow(today time.Time, monthsBehind, monthsAhead int) Window {
	day := truncateToDay(today)
	return Window{
		Start: day.AddDate(0, 0, -monthsBehind*30),
		End:   day.AddDate(0, 0, monthsAhead*30),
	}
}

// Contains reports whether the date of t falls within the window, inclusive
// of both bounds. Only the calendar date is considered.
func (w Window) Contains(t time.Time) bool {
	d := truncateToDay(t.In(w.Start.Location()))
	return !d.Before(w.Start) && !d.After(w.End)
}

// DaysBefore returns how many whole calendar days the date of t falls
// before the window start; zero if t is not before the start. Days are
// counted by date, not by 24h durations, so DST transitions don't shift
// the count.
func (w Window) DaysBefore(t time.Time) int {
	d := truncateToDay(t.In(w.Start.Location()))
	days := 0
	for d.Before(w.Start) {
		d = d.AddDate(0, 0, 1)
		days++
	}
	return days
}

// Months enumerates every calendar month the window touches, in ascending
// order, wrapping year boundaries.
func (w Window) Months() []Month {
	var months []Month
	y, m := w.Start.Year(), w.Start.Month()
	endY, endM := w.End.Year(), w.End.Month()
	for y < endY || (y == endY && m <= endM) {
		months = append(months, Month{Year: y, Month: m})
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return months
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
