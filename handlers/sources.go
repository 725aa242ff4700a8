package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/types"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxSourceNameLength = 100

// HandleListSources replaces the session's source registry with the backend's
// @Summary List sources
// @Description Fetches the registered feed sources from the RSS backend.
// @Tags Sources
// @Produce json
// @Success 200 {object} view.Snapshot "View with the source registry"
// @Failure 502 {object} middleware.APIError "Backend unavailable"
// @Router /api/sources [get]
func (h *Handler) HandleListSources(w http.ResponseWriter, r *http.Request) {
	h.reloadSources(w, r)
}

// HandleAddSource registers a new feed source on the backend
// @Summary Add a source
// @Description Registers a feed under a name and reloads the source registry.
// @Tags Sources
// @Accept json
// @Produce json
// @Param source body types.SourceRequest true "Source to add"
// @Success 200 {object} view.Snapshot "View with the updated registry"
// @Failure 400 {object} middleware.APIError "Invalid source"
// @Failure 502 {object} middleware.APIError "Backend unavailable"
// @Router /api/sources [post]
func (h *Handler) HandleAddSource(w http.ResponseWriter, r *http.Request) {
	var req types.SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondBadRequest(w, r, fmt.Errorf("invalid JSON in request body: %w", err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	if err := validateSource(req); err != nil {
		middleware.RespondInvalidSource(w, r, err)
		return
	}

	sessionID, state := h.session(r)
	if err := h.Backend.AddSource(r.Context(), req.Name, req.URL); err != nil {
		h.backendFailure(w, r, sessionID, state.ResetSources(h.now()), "add_source", err)
		return
	}
	h.logger(r).WithFields(logrus.Fields{
		"name": req.Name,
		"url":  req.URL,
	}).Info("Source added")

	h.reloadSources(w, r)
}

// HandleRemoveSource removes a feed source from the backend
// @Summary Remove a source
// @Description Removes the named feed and reloads the source registry.
// @Tags Sources
// @Produce json
// @Param name path string true "Source name"
// @Success 200 {object} view.Snapshot "View with the updated registry"
// @Failure 400 {object} middleware.APIError "Missing name"
// @Failure 502 {object} middleware.APIError "Backend unavailable"
// @Router /api/sources/{name} [delete]
func (h *Handler) HandleRemoveSource(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		middleware.RespondInvalidSource(w, r, errors.New("source name is required"))
		return
	}

	sessionID, state := h.session(r)
	if err := h.Backend.RemoveSource(r.Context(), name); err != nil {
		h.backendFailure(w, r, sessionID, state.ResetSources(h.now()), "remove_source", err)
		return
	}
	h.logger(r).WithField("name", name).Info("Source removed")

	h.reloadSources(w, r)
}

func (h *Handler) reloadSources(w http.ResponseWriter, r *http.Request) {
	sessionID, state := h.session(r)
	sources, err := h.Backend.ListSources(r.Context())
	if err != nil {
		h.backendFailure(w, r, sessionID, state.ResetSources(h.now()), "list_sources", err)
		return
	}
	h.store(w, r, sessionID, state.WithSources(sources, h.now()))
}

// validateSource checks a source before it is sent to the backend
func validateSource(req types.SourceRequest) error {
	if req.Name == "" {
		return errors.New("name cannot be empty")
	}
	if len(req.Name) > maxSourceNameLength {
		return fmt.Errorf("name exceeds %d characters", maxSourceNameLength)
	}
	if req.URL == "" {
		return errors.New("url cannot be empty")
	}
	parsed, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("only HTTP and HTTPS URLs are allowed")
	}
	if parsed.Host == "" {
		return errors.New("URL must have a valid host")
	}
	return nil
}
