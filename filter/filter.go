/*
Package filter implements the client-side filtering engine of the RSS feed frontend.

Everything in this package is a pure function over plain data: given the full set of
fetched articles and a filter specification it derives the subset to display, the
distinct sources present in a collection and a short summary of the applied filter.
Nothing here performs I/O, keeps state or returns errors.
*/
package filter

import (
	"time"
)

// TimeMode selects the time window an article must fall into
type TimeMode string

const (
	All    TimeMode = "all"
	Today  TimeMode = "today"
	Week   TimeMode = "week"
	Month  TimeMode = "month"
	Custom TimeMode = "custom"
)

// ParseTimeMode maps a user supplied token to a TimeMode. The empty string maps to All.
func ParseTimeMode(s string) (TimeMode, bool) {
	switch TimeMode(s) {
	case "", All:
		return All, true
	case Today, Week, Month, Custom:
		return TimeMode(s), true
	default:
		return TimeMode(s), false
	}
}

// Entry is anything the engine can filter: it needs the originating source and a timestamp.
type Entry interface {
	SourceKey() string
	Timestamp() string
}

// Article is one aggregated feed item as delivered by the backend
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	SourceID  string `json:"source"`
	Published string `json:"published"`
}

// SourceKey implements Entry
func (a Article) SourceKey() string { return a.SourceID }

// Timestamp implements Entry
func (a Article) Timestamp() string { return a.Published }

// Source is the canonical descriptor of a feed source
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Spec is the set of user-chosen constraints applied to the article collection.
// CustomStart and CustomEnd are calendar dates (YYYY-MM-DD) and only matter in Custom mode.
type Spec struct {
	Sources     []string `json:"sources"`
	TimeMode    TimeMode `json:"time_mode"`
	CustomStart string   `json:"custom_start,omitempty"`
	CustomEnd   string   `json:"custom_end,omitempty"`
}

// Normalize returns a copy of the spec with duplicate and blank sources removed.
// The first occurrence of each source keeps its position.
func (s Spec) Normalize() Spec {
	out := s
	out.Sources = nil
	seen := make(map[string]struct{}, len(s.Sources))
	for _, src := range s.Sources {
		if src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		out.Sources = append(out.Sources, src)
	}
	if out.TimeMode == "" {
		out.TimeMode = All
	}
	return out
}

// IsEmpty reports whether the spec restricts nothing
func (s Spec) IsEmpty() bool {
	return len(s.sourceSet()) == 0 && !s.timed()
}

func (s Spec) timed() bool {
	return s.TimeMode != "" && s.TimeMode != All
}

// sourceSet returns the selected sources, or nil when none is selected.
// Blank entries select nothing.
func (s Spec) sourceSet() map[string]struct{} {
	var set map[string]struct{}
	for _, src := range s.Sources {
		if src == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(s.Sources))
		}
		set[src] = struct{}{}
	}
	return set
}

// Clock fixes the reference instant and the viewer's time zone for time-dependent modes.
// The zero Clock means "now, in the process' local zone".
type Clock struct {
	Now      time.Time
	Location *time.Location
}

// NewClock returns a Clock pinned to now in loc
func NewClock(now time.Time, loc *time.Location) Clock {
	return Clock{Now: now, Location: loc}
}

// SystemClock returns a Clock reading the wall clock in loc
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now(), Location: loc}
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Clock) now() time.Time {
	if c.Now.IsZero() {
		return time.Now().In(c.location())
	}
	return c.Now.In(c.location())
}

// today returns local midnight of the reference day
func (c Clock) today() time.Time {
	y, m, d := c.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.location())
}
