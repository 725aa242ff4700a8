package filter

import (
	"fmt"
	"strings"
)

// Apply returns the entries matching spec, in their original order.
// An entry is kept when its source is selected (or no source is selected) and its
// timestamp lies in the spec's time window. The input slice is never modified.
func Apply[T Entry](items []T, spec Spec, c Clock) []T {
	allowed := spec.sourceSet()
	timed := spec.timed()

	out := make([]T, 0, len(items))
	for _, item := range items {
		if allowed != nil {
			if _, ok := allowed[item.SourceKey()]; !ok {
				continue
			}
		}
		if timed && !InRange(item.Timestamp(), spec, c) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// UniqueSources lists the distinct sources of items in order of first occurrence
func UniqueSources[T Entry](items []T) []Source {
	seen := make(map[string]struct{})
	var sources []Source
	for _, item := range items {
		id := item.SourceKey()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sources = append(sources, Source{ID: id, Name: id})
	}
	return sources
}

// Summary describes the applied spec for display, e.g. "2 source(s), week".
// It returns false when no filter is applied.
func Summary(spec *Spec) (string, bool) {
	if spec == nil {
		return "", false
	}
	normalized := spec.Normalize()
	if normalized.IsEmpty() {
		return "", false
	}

	var parts []string
	if n := len(normalized.Sources); n > 0 {
		parts = append(parts, fmt.Sprintf("%d source(s)", n))
	}
	if normalized.timed() {
		parts = append(parts, string(normalized.TimeMode))
	}
	return strings.Join(parts, ", "), true
}

// Validate checks a spec received from a user before it is applied
func (s Spec) Validate() error {
	if _, ok := ParseTimeMode(string(s.TimeMode)); !ok {
		return fmt.Errorf("unknown time mode %q", s.TimeMode)
	}
	if s.TimeMode != Custom {
		return nil
	}
	if s.CustomStart != "" {
		if _, ok := ParseTimestamp(s.CustomStart, nil); !ok {
			return fmt.Errorf("custom_start %q is not a valid date", s.CustomStart)
		}
	}
	if s.CustomEnd != "" {
		if _, ok := ParseTimestamp(s.CustomEnd, nil); !ok {
			return fmt.Errorf("custom_end %q is not a valid date", s.CustomEnd)
		}
	}
	return nil
}
