/*
Package handlers provides the HTTP handlers of the RSS feed frontend.

Every handler works on the viewer session attached to the request: it loads the
session's view state, asks the backend for data when needed, derives the next state
and stores it back with a single save. Backend failures reset the affected collection
to empty so the page never shows stale data next to an error.
*/
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/view"
	"github.com/sirupsen/logrus"
)

// BackendClient defines the RSS backend operations used by the handlers
type BackendClient interface {
	ListArticles(ctx context.Context) ([]filter.Article, error)
	Search(ctx context.Context, query string) ([]filter.Article, error)
	ListSources(ctx context.Context) ([]filter.Source, error)
	AddSource(ctx context.Context, name, feedURL string) error
	RemoveSource(ctx context.Context, name string) error
	Refresh(ctx context.Context) error
	Ping(ctx context.Context) error
}

// SessionStore defines the session state operations used by the handlers
type SessionStore interface {
	Load(sessionID string) *view.State
	Save(sessionID string, state *view.State) error
}

// Handler contains all service dependencies for HTTP handlers
type Handler struct {
	Backend  BackendClient
	Sessions SessionStore
	Logger   *logrus.Logger
	Version  string
	// Now defaults to time.Now
	Now func() time.Time
}

// NewHandler creates a new handler instance with injected dependencies
func NewHandler(backend BackendClient, sessions SessionStore, logger *logrus.Logger, version string) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		Backend:  backend,
		Sessions: sessions,
		Logger:   logger,
		Version:  version,
		Now:      time.Now,
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// session loads the state of the session attached to r
func (h *Handler) session(r *http.Request) (string, *view.State) {
	sessionID := middleware.SessionID(r)
	return sessionID, h.Sessions.Load(sessionID)
}

// store saves state and writes its snapshot as the response
func (h *Handler) store(w http.ResponseWriter, r *http.Request, sessionID string, state *view.State) {
	if err := h.Sessions.Save(sessionID, state); err != nil {
		middleware.RespondSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

// backendFailure stores the reset state and reports the backend error to the caller
func (h *Handler) backendFailure(w http.ResponseWriter, r *http.Request, sessionID string, reset *view.State, action string, err error) {
	requestID := middleware.RequestID(r)
	h.Logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"action":     action,
		"error":      err.Error(),
	}).Error("Backend request failed")

	if saveErr := h.Sessions.Save(sessionID, reset); saveErr != nil {
		h.Logger.WithError(saveErr).Error("Failed to store reset session state")
	}
	middleware.RespondExternalAPIError(w, r, err)
}

func (h *Handler) logger(r *http.Request) *logrus.Entry {
	return h.Logger.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(r),
		"session_id": middleware.SessionID(r),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
