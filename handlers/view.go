package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/types"
	"github.com/Nexora-Open-Source/rss-feed-frontend/utils"
	"github.com/Nexora-Open-Source/rss-feed-frontend/view"
	"github.com/Nexora-Open-Source/rss-feed-frontend/web"
	"github.com/sirupsen/logrus"
)

// HandlePage renders the single page. A session that has never loaded data fetches
// articles and sources first.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	sessionID, state := h.session(r)

	var problems []string
	if state.UpdatedAt.IsZero() {
		now := h.now()
		if articles, err := h.Backend.ListArticles(r.Context()); err != nil {
			h.logger(r).WithError(err).Error("Failed to load articles for page")
			state = state.ResetArticles(now)
			problems = append(problems, "articles could not be loaded")
		} else {
			state = state.WithArticles(articles, "", now)
		}
		if sources, err := h.Backend.ListSources(r.Context()); err != nil {
			h.logger(r).WithError(err).Error("Failed to load sources for page")
			state = state.ResetSources(now)
			problems = append(problems, "sources could not be loaded")
		} else {
			state = state.WithSources(sources, now)
		}
		if err := h.Sessions.Save(sessionID, state); err != nil {
			h.logger(r).WithError(err).Error("Failed to store session state")
		}
	} else if current := state.Current(h.now()); current != state {
		state = current
		if err := h.Sessions.Save(sessionID, state); err != nil {
			h.logger(r).WithError(err).Error("Failed to store session state")
		}
	}

	data := web.NewPageData(state.Snapshot(), state.Spec(), h.Version)
	if len(problems) > 0 {
		data.Error = "The RSS backend is unavailable: " + strings.Join(problems, ", ")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Render(w, data); err != nil {
		h.logger(r).WithError(err).Error("Failed to render page")
	}
}

// HandleGetView returns the current session snapshot
// @Summary Get the session view
// @Description Returns the displayed articles, source options and applied filter of the current session.
// @Tags View
// @Produce json
// @Param tz query string false "IANA time zone of the viewer, e.g. Europe/Berlin"
// @Success 200 {object} view.Snapshot "Current view"
// @Failure 400 {object} middleware.APIError "Unknown time zone"
// @Router /api/view [get]
func (h *Handler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	sessionID, state := h.session(r)

	tz := r.URL.Query().Get("tz")
	if tz == "" {
		if current := state.Current(h.now()); current != state {
			h.store(w, r, sessionID, current)
			return
		}
		writeJSON(w, http.StatusOK, state.Snapshot())
		return
	}

	next, err := h.withZone(state, tz)
	if err != nil {
		middleware.RespondValidationError(w, r, err)
		return
	}
	h.store(w, r, sessionID, next)
}

// HandleApplyFilter applies a source and time filter to the session
// @Summary Apply a filter
// @Description Restricts the displayed articles to the chosen sources and time window. An empty filter clears it.
// @Tags View
// @Accept json
// @Produce json
// @Param filter body types.FilterRequest true "Filter to apply"
// @Success 200 {object} view.Snapshot "Filtered view"
// @Failure 400 {object} middleware.APIError "Invalid filter"
// @Router /api/filter [put]
func (h *Handler) HandleApplyFilter(w http.ResponseWriter, r *http.Request) {
	var req types.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondBadRequest(w, r, fmt.Errorf("invalid JSON in request body: %w", err))
		return
	}

	spec := req.Spec()
	if err := spec.Validate(); err != nil {
		middleware.RespondInvalidFilter(w, r, err)
		return
	}

	sessionID, state := h.session(r)
	if req.TimeZone != "" {
		var err error
		if state, err = h.withZone(state, req.TimeZone); err != nil {
			middleware.RespondInvalidFilter(w, r, err)
			return
		}
	}

	next := state.WithSpec(spec, h.now())
	applied := next.Spec()
	h.logger(r).WithFields(logrus.Fields{
		"time_mode": applied.TimeMode,
		"sources":   len(applied.Sources),
		"displayed": len(next.Displayed),
	}).Info("Filter applied")

	h.store(w, r, sessionID, next)
}

// HandleClearFilter removes the applied filter
// @Summary Clear the filter
// @Description Shows the full article collection again.
// @Tags View
// @Produce json
// @Success 200 {object} view.Snapshot "Unfiltered view"
// @Router /api/filter [delete]
func (h *Handler) HandleClearFilter(w http.ResponseWriter, r *http.Request) {
	sessionID, state := h.session(r)
	h.store(w, r, sessionID, state.ClearSpec(h.now()))
}

func (h *Handler) withZone(state *view.State, tz string) (*view.State, error) {
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, errors.New("tz: " + err.Error())
	}
	return state.WithLocation(loc, h.now()), nil
}
