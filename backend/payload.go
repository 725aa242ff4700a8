package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
)

// text accepts a JSON string, number or null. Backends are not consistent about
// the type of timestamp-like fields.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = text(n.String())
	}
	return nil
}

// articlePayload covers every field naming the backend revisions have used
type articlePayload struct {
	Title     text `json:"title"`
	Link      text `json:"link"`
	Source    text `json:"source"`
	UserName  text `json:"user_name"`
	Published text `json:"published"`
	Timestamp text `json:"timestamp"`
}

func (p articlePayload) article() filter.Article {
	return filter.Article{
		Title:     string(p.Title),
		Link:      string(p.Link),
		SourceID:  firstNonEmpty(string(p.Source), string(p.UserName)),
		Published: firstNonEmpty(string(p.Published), string(p.Timestamp)),
	}
}

// sourcePayload is one entry of /list_feeds
type sourcePayload struct {
	ID       text `json:"id"`
	UserName text `json:"user_name"`
	Name     text `json:"name"`
	URL      text `json:"url"`
}

func (p sourcePayload) source() filter.Source {
	return filter.Source{
		ID:   firstNonEmpty(string(p.UserName), string(p.Name), string(p.ID)),
		Name: firstNonEmpty(string(p.Name), string(p.UserName), string(p.ID)),
		URL:  string(p.URL),
	}
}

// decodeArticles adapts a /feeds or /search body to canonical articles
func decodeArticles(body []byte) ([]filter.Article, error) {
	var payload []articlePayload
	if err := decodeArray(body, &payload); err != nil {
		return nil, err
	}
	articles := make([]filter.Article, 0, len(payload))
	for _, p := range payload {
		articles = append(articles, p.article())
	}
	return articles, nil
}

// decodeSources adapts a /list_feeds body to canonical sources
func decodeSources(body []byte) ([]filter.Source, error) {
	var payload []sourcePayload
	if err := decodeArray(body, &payload); err != nil {
		return nil, err
	}
	sources := make([]filter.Source, 0, len(payload))
	for _, p := range payload {
		s := p.source()
		if s.ID == "" {
			continue
		}
		sources = append(sources, s)
	}
	return sources, nil
}

// decodeArray rejects anything but a bare JSON array, including null
func decodeArray(body []byte, dst interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ErrMalformedPayload
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
