/*
Package view holds the presentation state of one viewer session.

A State is the single source of truth for what the page shows: the full article
collection, the source registry, the applied filter and the displayed subset derived
from them. States are values: every change returns a new State with the displayed
subset re-derived from scratch, so a State handed out to a reader never changes.
*/
package view

import (
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
)

// State is the presentation state of one session
type State struct {
	Articles  []filter.Article
	Sources   []filter.Source
	Applied   *filter.Spec
	Displayed []filter.Article
	Query     string
	Location  *time.Location
	UpdatedAt time.Time
}

// Snapshot is the JSON shape of a State sent to the page
type Snapshot struct {
	Articles  []filter.Article `json:"articles"`
	Count     int              `json:"count"`
	Total     int              `json:"total"`
	Sources   []filter.Source  `json:"sources"`
	Filter    *filter.Spec     `json:"filter,omitempty"`
	Summary   *string          `json:"summary"`
	Query     string           `json:"query,omitempty"`
	TimeZone  string           `json:"time_zone"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// New returns an empty state for a viewer in loc
func New(loc *time.Location) *State {
	if loc == nil {
		loc = time.Local
	}
	return &State{
		Articles:  []filter.Article{},
		Displayed: []filter.Article{},
		Location:  loc,
	}
}

func (s *State) clone() *State {
	next := *s
	return &next
}

// WithArticles replaces the full collection. query records the keyword search that
// produced it and is empty for a plain listing.
func (s *State) WithArticles(articles []filter.Article, query string, now time.Time) *State {
	next := s.clone()
	if articles == nil {
		articles = []filter.Article{}
	}
	next.Articles = articles
	next.Query = query
	return next.derive(now)
}

// WithSources replaces the source registry
func (s *State) WithSources(sources []filter.Source, now time.Time) *State {
	next := s.clone()
	next.Sources = sources
	next.UpdatedAt = now
	return next
}

// WithSpec applies spec to the collection. An empty spec clears the filter.
func (s *State) WithSpec(spec filter.Spec, now time.Time) *State {
	next := s.clone()
	normalized := spec.Normalize()
	if normalized.IsEmpty() {
		next.Applied = nil
	} else {
		next.Applied = &normalized
	}
	return next.derive(now)
}

// ClearSpec removes the applied filter
func (s *State) ClearSpec(now time.Time) *State {
	next := s.clone()
	next.Applied = nil
	return next.derive(now)
}

// WithLocation changes the viewer's time zone and re-derives the displayed subset
func (s *State) WithLocation(loc *time.Location, now time.Time) *State {
	if loc == nil {
		return s
	}
	next := s.clone()
	next.Location = loc
	return next.derive(now)
}

// Current returns the state as it should look at now. Today, week and month windows
// move at midnight, so a state derived on an earlier day in the viewer's zone is
// derived again. Otherwise s is returned unchanged.
func (s *State) Current(now time.Time) *State {
	if s.Applied == nil || s.UpdatedAt.IsZero() {
		return s
	}
	switch s.Applied.TimeMode {
	case filter.Today, filter.Week, filter.Month:
	default:
		return s
	}
	if sameDay(s.UpdatedAt, now, s.Location) {
		return s
	}
	return s.clone().derive(now)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ResetArticles empties the collection after a failed fetch
func (s *State) ResetArticles(now time.Time) *State {
	return s.WithArticles(nil, "", now)
}

// ResetSources empties the registry after a failed fetch
func (s *State) ResetSources(now time.Time) *State {
	return s.WithSources(nil, now)
}

// Options lists the sources a viewer can filter on: the backend registry when there
// is one, otherwise the distinct sources of the full collection.
func (s *State) Options() []filter.Source {
	if len(s.Sources) > 0 {
		return s.Sources
	}
	return filter.UniqueSources(s.Articles)
}

// Spec returns the applied spec, or the empty spec
func (s *State) Spec() filter.Spec {
	if s.Applied == nil {
		return filter.Spec{TimeMode: filter.All}
	}
	return *s.Applied
}

// Snapshot renders the state for the page
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Articles:  s.Displayed,
		Count:     len(s.Displayed),
		Total:     len(s.Articles),
		Sources:   s.Options(),
		Filter:    s.Applied,
		Query:     s.Query,
		TimeZone:  s.Location.String(),
		UpdatedAt: s.UpdatedAt,
	}
	if snap.Sources == nil {
		snap.Sources = []filter.Source{}
	}
	if summary, ok := filter.Summary(s.Applied); ok {
		snap.Summary = &summary
	}
	return snap
}

// derive recomputes the displayed subset from the full collection and the applied spec
func (s *State) derive(now time.Time) *State {
	spec := s.Spec()
	s.Displayed = filter.Apply(s.Articles, spec, filter.NewClock(now, s.Location))
	s.UpdatedAt = now
	monitoring.RecordFilterApplication(string(spec.TimeMode), len(s.Displayed), len(s.Articles))
	return s
}
