package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	client, err := NewClient(server.URL, 5*time.Second, logger)
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "http://", "://bad"} {
		_, err := NewClient(raw, time.Second, nil)
		assert.Error(t, err, raw)
	}
}

func TestListArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/feeds", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"title": "Go 1.24", "link": "https://go.dev/blog", "source": "go", "published": "2024-02-11T10:00:00Z"},
			{"title": "Rust news", "link": "https://rust.example", "user_name": "rust", "timestamp": "2024-02-10 09:00:00"}
		]`))
	})

	articles, err := client.ListArticles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []filter.Article{
		{Title: "Go 1.24", Link: "https://go.dev/blog", SourceID: "go", Published: "2024-02-11T10:00:00Z"},
		{Title: "Rust news", Link: "https://rust.example", SourceID: "rust", Published: "2024-02-10 09:00:00"},
	}, articles)
}

func TestListArticlesNumericTimestamp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title": "x", "source": "a", "timestamp": 1707559200, "published": null}]`))
	})

	articles, err := client.ListArticles(context.Background())

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "1707559200", articles[0].Published)
}

func TestListArticlesMalformedPayload(t *testing.T) {
	for _, body := range []string{`{"error": "nope"}`, `null`, ``, `"text"`, `[{"title": true}]`} {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			articles, err := client.ListArticles(context.Background())

			assert.True(t, errors.Is(err, ErrMalformedPayload), "got %v", err)
			assert.Empty(t, articles)
		})
	}
}

func TestListArticlesStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	articles, err := client.ListArticles(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
	assert.Nil(t, articles)
}

func TestListArticlesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(server.URL, time.Second, nil)
	require.NoError(t, err)

	articles, err := client.ListArticles(context.Background())
	assert.Error(t, err)
	assert.Nil(t, articles)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "golang generics", r.URL.Query().Get("query"))
		w.Write([]byte(`[{"title": "Generics", "source": "go", "published": "2024-01-01"}]`))
	})

	articles, err := client.Search(context.Background(), "golang generics")

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Generics", articles[0].Title)
}

func TestListSources(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list_feeds", r.URL.Path)
		w.Write([]byte(`[
			{"user_name": "go", "url": "https://go.dev/blog/feed.atom"},
			{"name": "BBC News", "url": "http://feeds.bbci.co.uk/news/rss.xml"},
			{"url": "https://anonymous.example/rss"}
		]`))
	})

	sources, err := client.ListSources(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []filter.Source{
		{ID: "go", Name: "go", URL: "https://go.dev/blog/feed.atom"},
		{ID: "BBC News", Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml"},
	}, sources)
}

func TestListSourcesMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"feeds": []}`))
	})

	sources, err := client.ListSources(context.Background())

	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.Nil(t, sources)
}

func TestAddSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/add_feed", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("name"))
		assert.Equal(t, "https://go.dev/blog/feed.atom", r.URL.Query().Get("url"))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.AddSource(context.Background(), "go", "https://go.dev/blog/feed.atom")
	assert.NoError(t, err)
}

func TestRemoveSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/remove_feed", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("name"))
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.RemoveSource(context.Background(), "go")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRefresh(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/update_feeds", r.URL.Path)
		w.Write([]byte(`{"status": "ok"}`))
	})

	require.NoError(t, client.Refresh(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestBaseURLWithPathPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feeds", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/api/", time.Second, nil)
	require.NoError(t, err)

	articles, err := client.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}
