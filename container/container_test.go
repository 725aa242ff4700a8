package container

import (
	"errors"
	"testing"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/backend"
	"github.com/Nexora-Open-Source/rss-feed-frontend/cache"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerRegistrationOrder(t *testing.T) {
	c := NewContainer()
	c.Register("a", 1)
	c.RegisterSingleton("b", 2)
	c.RegisterFactory("c", func() (interface{}, error) { return 3, nil })
	c.RegisterFactory("broken", func() (interface{}, error) { return nil, errors.New("nope") })

	for name, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, err := c.Get(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := c.Get("broken")
	assert.Error(t, err)
	_, err = c.Get("missing")
	assert.Error(t, err)
}

func TestInitializeServices(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client, err := backend.NewClient("http://localhost:8080", time.Second, logger)
	require.NoError(t, err)
	sessionCache := cache.NewInMemoryCache(time.Minute, time.Minute)
	sessions := cache.NewSessionManager(sessionCache, logger, time.Minute, time.UTC)
	alerts := monitoring.NewAlertManager(logger, 0)

	c := NewContainer()
	require.NoError(t, c.InitializeServices(client, sessionCache, sessions, alerts, logger, "1.0.0"))

	gotClient, err := c.GetBackendClient()
	require.NoError(t, err)
	assert.Same(t, client, gotClient)

	gotSessions, err := c.GetSessionManager()
	require.NoError(t, err)
	assert.Same(t, sessions, gotSessions)

	gotAlerts, err := c.GetAlertManager()
	require.NoError(t, err)
	assert.Same(t, alerts, gotAlerts)

	gotLogger, err := c.GetLogger()
	require.NoError(t, err)
	assert.Same(t, logger, gotLogger)

	handler, err := c.GetHandler()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", handler.Version)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestInitializeServicesRequiresDependencies(t *testing.T) {
	c := NewContainer()
	assert.Error(t, c.InitializeServices(nil, nil, nil, nil, logrus.New(), ""))
}

func TestTypedGettersRejectWrongTypes(t *testing.T) {
	c := NewContainer()
	c.Register("logger", "not a logger")
	c.Register("handler", 42)

	_, err := c.GetLogger()
	assert.Error(t, err)
	_, err = c.GetHandler()
	assert.Error(t, err)
}
