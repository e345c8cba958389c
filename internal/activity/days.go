package activity

import (
	"fmt"
	"time"
)

// DayGroup is one calendar day's worth of feed entries, in feed order.
type DayGroup struct {
	// Key is "Today", "Yesterday", or a formatted full date.
	Key     string  `json:"key"`
	Entries []Entry `json:"entries"`
}

// GroupByDay buckets an already-sorted feed by local calendar day. The
// bucket key is "Today" when the entry's local date equals now's local
// date, "Yesterday" for exactly one day prior, and the full date otherwise.
// Entry order within and across groups is preserved.
func GroupByDay(entries []Entry, now time.Time) []DayGroup {
	var groups []DayGroup
	for _, e := range entries {
		key := DayKey(e.When(), now)
		if len(groups) == 0 || groups[len(groups)-1].Key != key {
			groups = append(groups, DayGroup{Key: key})
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, e)
	}
	return groups
}

// DayKey renders the bucket key for an instant relative to now, in now's
// location.
func DayKey(t, now time.Time) string {
	t = t.In(now.Location())
	day := truncateToDay(t)
	today := truncateToDay(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return t.Format("Mon, Jan 2 2006")
	}
}

// RelativeTime renders a human-friendly age for CLI output: "just now",
// minutes, hours, days, then the plain date past a week.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.In(now.Location()).Format("Jan 2")
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
