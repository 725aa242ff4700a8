package filter

import (
	"strings"
	"time"
)

const week = 7 * 24 * time.Hour

// Layouts carrying their own offset or zone.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.UnixDate,
	time.RubyDate,
}

// Layouts without zone information, read in the viewer's zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.ANSIC,
}

// ParseTimestamp parses the date-time formats backends deliver for articles.
// Values without zone information are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InRange reports whether the timestamp falls inside the window selected by spec.
//
// Unparsable timestamps are always included, as is anything evaluated under All or an
// unknown mode. Week and Month have no upper bound. A Custom window missing either bound
// includes everything; its end is inclusive through the last millisecond of that day.
func InRange(timestamp string, spec Spec, c Clock) (included bool) {
	defer func() {
		if recover() != nil {
			included = true
		}
	}()

	loc := c.location()
	published, ok := ParseTimestamp(timestamp, loc)
	if !ok {
		return true
	}
	published = published.In(loc)
	today := c.today()

	switch spec.TimeMode {
	case Today:
		return sameDay(published, today)
	case Week:
		return !published.Before(today.Add(-week))
	case Month:
		monthAgo := time.Date(today.Year(), today.Month()-1, today.Day(), 0, 0, 0, 0, loc)
		return !published.Before(monthAgo)
	case Custom:
		if spec.CustomStart == "" || spec.CustomEnd == "" {
			return true
		}
		start, ok := ParseTimestamp(spec.CustomStart, loc)
		if !ok {
			return true
		}
		end, ok := ParseTimestamp(spec.CustomEnd, loc)
		if !ok {
			return true
		}
		end = endOfDay(end.In(loc))
		return !published.Before(start) && !published.After(end)
	default:
		return true
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
