package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/sirupsen/logrus"
)

// HandleReloadArticles replaces the session's collection with the backend listing
// @Summary Reload articles
// @Description Fetches every stored article from the RSS backend and re-applies the session filter.
// @Tags Articles
// @Produce json
// @Success 200 {object} view.Snapshot "Reloaded view"
// @Failure 502 {object} middleware.APIError "Backend unavailable"
// @Router /api/articles/reload [post]
func (h *Handler) HandleReloadArticles(w http.ResponseWriter, r *http.Request) {
	h.reloadArticles(w, r)
}

// HandleSearch replaces the session's collection with the backend's keyword search result
// @Summary Search articles
// @Description Runs a keyword search on the RSS backend. The session filter applies to the result.
// @Tags Articles
// @Produce json
// @Param query query string true "Search keywords"
// @Success 200 {object} view.Snapshot "Search result"
// @Failure 400 {object} middleware.APIError "Missing query"
// @Failure 502 {object} middleware.APIError "Backend unavailable"
// @Router /api/search [get]
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		middleware.RespondValidationError(w, r, errors.New("query parameter is required"))
		return
	}

	sessionID, state := h.session(r)
	articles, err := h.Backend.Search(r.Context(), query)
	if err != nil {
		h.backendFailure(w, r, sessionID, state.ResetArticles(h.now()), "search", err)
		return
	}

	next := state.WithArticles(articles, query, h.now())
	h.logger(r).WithFields(logrus.Fields{
		"query":     query,
		"matches":   len(articles),
		"displayed": len(next.Displayed),
	}).Info("Search completed")
	h.store(w, r, sessionID, next)
}

// HandleRefresh asks the backend to re-fetch every feed, then reloads the articles
// @Summary Refresh feeds
// @Description Triggers a feed update on the RSS backend and reloads the session's articles.
// @Tags Articles
// @Produce json
// @Success 200 {object} view.Snapshot "Refreshed view"
// @Failure 502 {object} middleware.APIError "Backend unavailable"
// @Router /api/refresh [post]
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sessionID, state := h.session(r)
	if err := h.Backend.Refresh(r.Context()); err != nil {
		h.backendFailure(w, r, sessionID, state.ResetArticles(h.now()), "refresh", err)
		return
	}
	h.logger(r).Info("Backend feeds refreshed")
	h.reloadArticles(w, r)
}

func (h *Handler) reloadArticles(w http.ResponseWriter, r *http.Request) {
	sessionID, state := h.session(r)
	articles, err := h.Backend.ListArticles(r.Context())
	if err != nil {
		h.backendFailure(w, r, sessionID, state.ResetArticles(h.now()), "list_articles", err)
		return
	}

	next := state.WithArticles(articles, "", h.now())
	h.logger(r).WithFields(logrus.Fields{
		"articles":  len(articles),
		"displayed": len(next.Displayed),
	}).Info("Articles reloaded")
	h.store(w, r, sessionID, next)
}
