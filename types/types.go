// Package types contains request and response bodies shared by the RSS feed frontend API
package types

import "github.com/Nexora-Open-Source/rss-feed-frontend/filter"

// SourceRequest is the body of POST /api/sources
type SourceRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FilterRequest is the body of PUT /api/filter
type FilterRequest struct {
	Sources     []string `json:"sources"`
	TimeMode    string   `json:"time_mode"`
	CustomStart string   `json:"custom_start,omitempty"`
	CustomEnd   string   `json:"custom_end,omitempty"`
	// TimeZone optionally moves the session to another IANA zone before filtering
	TimeZone string `json:"time_zone,omitempty"`
}

// Spec converts the request into a filter spec
func (r FilterRequest) Spec() filter.Spec {
	return filter.Spec{
		Sources:     r.Sources,
		TimeMode:    filter.TimeMode(r.TimeMode),
		CustomStart: r.CustomStart,
		CustomEnd:   r.CustomEnd,
	}
}

// HealthStatus represents the health check response structure
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
}

// ActionResponse acknowledges a backend command
type ActionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}
