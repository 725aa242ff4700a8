package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/backend"
	"github.com/Nexora-Open-Source/rss-feed-frontend/cache"
	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/types"
	"github.com/Nexora-Open-Source/rss-feed-frontend/view"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSession = "6f1d2c3b-0000-4000-8000-000000000001"

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func init() {
	middleware.InitLogger()
	middleware.Logger.SetLevel(logrus.PanicLevel)
}

// MockBackend is a mock for the RSS backend client
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListArticles(ctx context.Context) ([]filter.Article, error) {
	args := m.Called(ctx)
	articles, _ := args.Get(0).([]filter.Article)
	return articles, args.Error(1)
}

func (m *MockBackend) Search(ctx context.Context, query string) ([]filter.Article, error) {
	args := m.Called(ctx, query)
	articles, _ := args.Get(0).([]filter.Article)
	return articles, args.Error(1)
}

func (m *MockBackend) ListSources(ctx context.Context) ([]filter.Source, error) {
	args := m.Called(ctx)
	sources, _ := args.Get(0).([]filter.Source)
	return sources, args.Error(1)
}

func (m *MockBackend) AddSource(ctx context.Context, name, feedURL string) error {
	return m.Called(ctx, name, feedURL).Error(0)
}

func (m *MockBackend) RemoveSource(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockBackend) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBackend) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newTestHandler(t *testing.T) (*Handler, *MockBackend, *cache.SessionManager) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := cache.NewInMemoryCache(time.Minute, 0)
	t.Cleanup(store.Stop)
	sessions := cache.NewSessionManager(store, logger, time.Minute, time.UTC)

	backendMock := new(MockBackend)
	h := NewHandler(backendMock, sessions, logger, "test")
	h.Now = func() time.Time { return fixedNow }
	return h, backendMock, sessions
}

func newRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), testSession))
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) view.Snapshot {
	t.Helper()
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var snap view.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.APIError {
	t.Helper()
	var apiErr middleware.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func sampleArticles() []filter.Article {
	return []filter.Article{
		{Title: "Go 1.22", Link: "https://go.dev/blog/go1.22", SourceID: "go", Published: "2024-03-15T08:00:00Z"},
		{Title: "BBC today", SourceID: "bbc", Published: "2024-03-15T09:00:00Z"},
		{Title: "Go old", SourceID: "go", Published: "2023-11-01T08:00:00Z"},
	}
}

func seed(t *testing.T, sessions *cache.SessionManager, state *view.State) {
	t.Helper()
	require.NoError(t, sessions.Save(testSession, state))
}

func TestHandleReloadArticles(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	backendMock.On("ListArticles", mock.Anything).Return(sampleArticles(), nil).Once()

	w := httptest.NewRecorder()
	h.HandleReloadArticles(w, newRequest(http.MethodPost, "/api/articles/reload", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	snap := decodeSnapshot(t, w)
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, 3, snap.Total)
	assert.Nil(t, snap.Summary)
	assert.Equal(t, []filter.Source{{ID: "go", Name: "go"}, {ID: "bbc", Name: "bbc"}}, snap.Sources)

	assert.Len(t, sessions.Load(testSession).Articles, 3)
	backendMock.AssertExpectations(t)
}

func TestHandleReloadArticlesKeepsAppliedFilter(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithSpec(filter.Spec{Sources: []string{"go"}, TimeMode: filter.Today}, fixedNow))
	backendMock.On("ListArticles", mock.Anything).Return(sampleArticles(), nil)

	w := httptest.NewRecorder()
	h.HandleReloadArticles(w, newRequest(http.MethodPost, "/api/articles/reload", ""))

	snap := decodeSnapshot(t, w)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "Go 1.22", snap.Articles[0].Title)
	require.NotNil(t, snap.Summary)
	assert.Equal(t, "1 source(s), today", *snap.Summary)
}

func TestHandleReloadArticlesBackendFailureResetsCollection(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))
	backendMock.On("ListArticles", mock.Anything).
		Return(nil, &backend.StatusError{Action: "list_articles", StatusCode: http.StatusInternalServerError})

	w := httptest.NewRecorder()
	h.HandleReloadArticles(w, newRequest(http.MethodPost, "/api/articles/reload", ""))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, middleware.ErrCodeExternalAPI, apiErr.Error)
	assert.True(t, apiErr.Retryable)

	state := sessions.Load(testSession)
	assert.Empty(t, state.Articles)
	assert.Empty(t, state.Displayed)
}

func TestHandleReloadArticlesMalformedPayload(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))
	backendMock.On("ListArticles", mock.Anything).Return(nil, backend.ErrMalformedPayload)

	w := httptest.NewRecorder()
	h.HandleReloadArticles(w, newRequest(http.MethodPost, "/api/articles/reload", ""))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, sessions.Load(testSession).Articles)
}

func TestHandleSearch(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	backendMock.On("Search", mock.Anything, "go release").Return(sampleArticles()[:1], nil)

	w := httptest.NewRecorder()
	h.HandleSearch(w, newRequest(http.MethodGet, "/api/search?query=go+release", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	snap := decodeSnapshot(t, w)
	assert.Equal(t, "go release", snap.Query)
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, "go release", sessions.Load(testSession).Query)
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleSearch(w, newRequest(http.MethodGet, "/api/search?query=++", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, middleware.ErrCodeValidation, decodeError(t, w).Error)
	backendMock.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestHandleSearchFailure(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))
	backendMock.On("Search", mock.Anything, "go").Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	h.HandleSearch(w, newRequest(http.MethodGet, "/api/search?query=go", ""))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, sessions.Load(testSession).Articles)
}

func TestHandleRefresh(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	backendMock.On("Refresh", mock.Anything).Return(nil).Once()
	backendMock.On("ListArticles", mock.Anything).Return(sampleArticles(), nil).Once()

	w := httptest.NewRecorder()
	h.HandleRefresh(w, newRequest(http.MethodPost, "/api/refresh", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decodeSnapshot(t, w).Total)
	backendMock.AssertExpectations(t)
}

func TestHandleRefreshFailureSkipsReload(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	backendMock.On("Refresh", mock.Anything).Return(errors.New("timeout"))

	w := httptest.NewRecorder()
	h.HandleRefresh(w, newRequest(http.MethodPost, "/api/refresh", ""))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	backendMock.AssertNotCalled(t, "ListArticles", mock.Anything)
}

func TestHandleApplyFilter(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))

	body := `{"sources": ["go", "go"], "time_mode": "week"}`
	w := httptest.NewRecorder()
	h.HandleApplyFilter(w, newRequest(http.MethodPut, "/api/filter", body))

	assert.Equal(t, http.StatusOK, w.Code)
	snap := decodeSnapshot(t, w)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "Go 1.22", snap.Articles[0].Title)
	require.NotNil(t, snap.Summary)
	assert.Equal(t, "1 source(s), week", *snap.Summary)
	assert.Equal(t, []string{"go"}, snap.Filter.Sources)
}

func TestHandleApplyFilterWithTimeZone(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	late := []filter.Article{{Title: "late", SourceID: "a", Published: "2024-03-14T23:30:00Z"}}
	seed(t, sessions, view.New(time.UTC).WithArticles(late, "", fixedNow))

	body := `{"time_mode": "today", "time_zone": "Europe/Berlin"}`
	w := httptest.NewRecorder()
	h.HandleApplyFilter(w, newRequest(http.MethodPut, "/api/filter", body))

	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeSnapshot(t, w)
	assert.Equal(t, "Europe/Berlin", snap.TimeZone)
	assert.Equal(t, 1, snap.Count)
}

func TestHandleApplyFilterEmptySpecClears(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).
		WithArticles(sampleArticles(), "", fixedNow).
		WithSpec(filter.Spec{Sources: []string{"bbc"}}, fixedNow))

	w := httptest.NewRecorder()
	h.HandleApplyFilter(w, newRequest(http.MethodPut, "/api/filter", `{"sources": [], "time_mode": "all"}`))

	snap := decodeSnapshot(t, w)
	assert.Equal(t, 3, snap.Count)
	assert.Nil(t, snap.Summary)
	assert.Nil(t, snap.Filter)
}

func TestHandleApplyFilterRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		code middleware.ErrorCode
	}{
		{"malformed JSON", `{"time_mode": `, middleware.ErrCodeBadRequest},
		{"unknown mode", `{"time_mode": "year"}`, middleware.ErrCodeInvalidFilter},
		{"bad custom start", `{"time_mode": "custom", "custom_start": "yesterday"}`, middleware.ErrCodeInvalidFilter},
		{"unknown zone", `{"time_mode": "all", "time_zone": "Mars/Olympus"}`, middleware.ErrCodeInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, sessions := newTestHandler(t)
			seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))

			w := httptest.NewRecorder()
			h.HandleApplyFilter(w, newRequest(http.MethodPut, "/api/filter", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error)
			assert.Nil(t, sessions.Load(testSession).Applied)
		})
	}
}

// failingStore loads fresh states and refuses every save
type failingStore struct{}

func (failingStore) Load(string) *view.State { return view.New(time.UTC) }

func (failingStore) Save(string, *view.State) error { return errors.New("store closed") }

func TestHandleClearFilterStoreFailure(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	h := NewHandler(new(MockBackend), failingStore{}, logger, "test")

	w := httptest.NewRecorder()
	h.HandleClearFilter(w, newRequest(http.MethodDelete, "/api/filter", ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, middleware.ErrCodeSessionStore, apiErr.Error)
	assert.Equal(t, "store closed", apiErr.Details)
}

func TestHandleClearFilter(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).
		WithArticles(sampleArticles(), "", fixedNow).
		WithSpec(filter.Spec{TimeMode: filter.Today}, fixedNow))

	w := httptest.NewRecorder()
	h.HandleClearFilter(w, newRequest(http.MethodDelete, "/api/filter", ""))

	snap := decodeSnapshot(t, w)
	assert.Equal(t, 3, snap.Count)
	assert.Nil(t, sessions.Load(testSession).Applied)
}

func TestHandleGetView(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))

	w := httptest.NewRecorder()
	h.HandleGetView(w, newRequest(http.MethodGet, "/api/view", ""))
	assert.Equal(t, 3, decodeSnapshot(t, w).Total)

	w = httptest.NewRecorder()
	h.HandleGetView(w, newRequest(http.MethodGet, "/api/view?tz=Asia/Tokyo", ""))
	assert.Equal(t, "Asia/Tokyo", decodeSnapshot(t, w).TimeZone)
	assert.Equal(t, "Asia/Tokyo", sessions.Load(testSession).Location.String())

	w = httptest.NewRecorder()
	h.HandleGetView(w, newRequest(http.MethodGet, "/api/view?tz=Nowhere/Land", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetViewMovesTodayWindowAfterMidnight(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).
		WithArticles(sampleArticles(), "", fixedNow).
		WithSpec(filter.Spec{TimeMode: filter.Today}, fixedNow))

	w := httptest.NewRecorder()
	h.HandleGetView(w, newRequest(http.MethodGet, "/api/view", ""))
	assert.Equal(t, 2, decodeSnapshot(t, w).Count)

	nextDay := fixedNow.Add(24 * time.Hour)
	h.Now = func() time.Time { return nextDay }

	w = httptest.NewRecorder()
	h.HandleGetView(w, newRequest(http.MethodGet, "/api/view", ""))
	snap := decodeSnapshot(t, w)
	assert.Equal(t, 0, snap.Count)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, nextDay, sessions.Load(testSession).UpdatedAt)
}

func TestSessionsAreIsolated(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithArticles(sampleArticles(), "", fixedNow))

	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "another-session"))
	w := httptest.NewRecorder()
	h.HandleGetView(w, req)

	assert.Equal(t, 0, decodeSnapshot(t, w).Total)
}

func TestHandleListSources(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	registry := []filter.Source{{ID: "go", Name: "Go Blog", URL: "https://go.dev/blog/feed.atom"}}
	backendMock.On("ListSources", mock.Anything).Return(registry, nil)

	w := httptest.NewRecorder()
	h.HandleListSources(w, newRequest(http.MethodGet, "/api/sources", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registry, decodeSnapshot(t, w).Sources)
}

func TestHandleListSourcesFailureFallsBackToDerived(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).
		WithArticles(sampleArticles(), "", fixedNow).
		WithSources([]filter.Source{{ID: "x", Name: "X"}}, fixedNow))
	backendMock.On("ListSources", mock.Anything).Return(nil, backend.ErrMalformedPayload)

	w := httptest.NewRecorder()
	h.HandleListSources(w, newRequest(http.MethodGet, "/api/sources", ""))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	state := sessions.Load(testSession)
	assert.Empty(t, state.Sources)
	assert.Equal(t, []filter.Source{{ID: "go", Name: "go"}, {ID: "bbc", Name: "bbc"}}, state.Options())
}

func TestHandleAddSource(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	backendMock.On("AddSource", mock.Anything, "go", "https://go.dev/blog/feed.atom").Return(nil).Once()
	backendMock.On("ListSources", mock.Anything).Return([]filter.Source{{ID: "go", Name: "go"}}, nil).Once()

	w := httptest.NewRecorder()
	h.HandleAddSource(w, newRequest(http.MethodPost, "/api/sources", `{"name": " go ", "url": "https://go.dev/blog/feed.atom"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeSnapshot(t, w).Sources, 1)
	backendMock.AssertExpectations(t)
}

func TestHandleAddSourceValidation(t *testing.T) {
	tests := []struct {
		name string
		req  types.SourceRequest
	}{
		{"empty name", types.SourceRequest{URL: "https://example.com/rss"}},
		{"empty url", types.SourceRequest{Name: "x"}},
		{"bad scheme", types.SourceRequest{Name: "x", URL: "ftp://example.com/rss"}},
		{"missing host", types.SourceRequest{Name: "x", URL: "https:///rss"}},
		{"long name", types.SourceRequest{Name: strings.Repeat("n", maxSourceNameLength+1), URL: "https://example.com/rss"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, backendMock, _ := newTestHandler(t)
			body, err := json.Marshal(tt.req)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			h.HandleAddSource(w, newRequest(http.MethodPost, "/api/sources", string(body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, middleware.ErrCodeInvalidSource, decodeError(t, w).Error)
			backendMock.AssertNotCalled(t, "AddSource", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleAddSourceFailure(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	seed(t, sessions, view.New(time.UTC).WithSources([]filter.Source{{ID: "a", Name: "a"}}, fixedNow))
	backendMock.On("AddSource", mock.Anything, "b", "https://b.example/rss").Return(errors.New("boom"))

	w := httptest.NewRecorder()
	h.HandleAddSource(w, newRequest(http.MethodPost, "/api/sources", `{"name": "b", "url": "https://b.example/rss"}`))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, sessions.Load(testSession).Sources)
	backendMock.AssertNotCalled(t, "ListSources", mock.Anything)
}

func TestHandleRemoveSource(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	backendMock.On("RemoveSource", mock.Anything, "BBC News").Return(nil).Once()
	backendMock.On("ListSources", mock.Anything).Return([]filter.Source{}, nil).Once()

	req := mux.SetURLVars(newRequest(http.MethodDelete, "/api/sources/BBC%20News", ""), map[string]string{"name": "BBC News"})
	w := httptest.NewRecorder()
	h.HandleRemoveSource(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	backendMock.AssertExpectations(t)
}

func TestHandleRemoveSourceRequiresName(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := mux.SetURLVars(newRequest(http.MethodDelete, "/api/sources/", ""), map[string]string{"name": " "})
	w := httptest.NewRecorder()
	h.HandleRemoveSource(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, middleware.ErrCodeInvalidSource, decodeError(t, w).Error)
}

func TestHandlePageLoadsNewSession(t *testing.T) {
	h, backendMock, sessions := newTestHandler(t)
	backendMock.On("ListArticles", mock.Anything).Return(sampleArticles(), nil).Once()
	backendMock.On("ListSources", mock.Anything).Return([]filter.Source{{ID: "go", Name: "Go Blog"}}, nil).Once()

	w := httptest.NewRecorder()
	h.HandlePage(w, newRequest(http.MethodGet, "/", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Go 1.22")
	assert.Contains(t, w.Body.String(), "Go Blog")
	assert.Len(t, sessions.Load(testSession).Articles, 3)

	// a loaded session is rendered from memory
	w = httptest.NewRecorder()
	h.HandlePage(w, newRequest(http.MethodGet, "/", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	backendMock.AssertExpectations(t)
}

func TestHandlePageBackendDown(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	backendMock.On("ListArticles", mock.Anything).Return(nil, errors.New("connection refused"))
	backendMock.On("ListSources", mock.Anything).Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	h.HandlePage(w, newRequest(http.MethodGet, "/", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The RSS backend is unavailable")
	assert.Contains(t, w.Body.String(), "No articles to show")
}

func TestHealthChecks(t *testing.T) {
	h, backendMock, _ := newTestHandler(t)
	backendMock.On("Ping", mock.Anything).Return(nil).Once()
	backendMock.On("Ping", mock.Anything).Return(errors.New("down"))

	w := httptest.NewRecorder()
	h.HandleHealthCheck(w, newRequest(http.MethodGet, "/health", ""))
	var health types.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Services["backend"])

	w = httptest.NewRecorder()
	h.HandleReadinessCheck(w, newRequest(http.MethodGet, "/health/ready", ""))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	h.HandleLivenessCheck(w, newRequest(http.MethodGet, "/health/live", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}
