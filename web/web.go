// Package web holds the single page served by the RSS feed frontend
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/Nexora-Open-Source/rss-feed-frontend/view"
)

//go:embed templates/*.html
var files embed.FS

var page = template.Must(template.ParseFS(files, "templates/index.html"))

// Modes lists the selectable time modes in display order
var Modes = []filter.TimeMode{filter.All, filter.Today, filter.Week, filter.Month, filter.Custom}

// PageData is everything the page template renders
type PageData struct {
	View     view.Snapshot
	Spec     filter.Spec
	Modes    []filter.TimeMode
	Selected map[string]bool
	Error    string
	Version  string
}

// NewPageData prepares the template data for a snapshot and its applied spec
func NewPageData(snap view.Snapshot, spec filter.Spec, version string) PageData {
	selected := make(map[string]bool, len(spec.Sources))
	for _, id := range spec.Sources {
		selected[id] = true
	}
	if spec.TimeMode == "" {
		spec.TimeMode = filter.All
	}
	return PageData{
		View:     snap,
		Spec:     spec,
		Modes:    Modes,
		Selected: selected,
		Version:  version,
	}
}

// Render writes the page for data
func Render(w io.Writer, data PageData) error {
	return page.ExecuteTemplate(w, "index.html", data)
}
