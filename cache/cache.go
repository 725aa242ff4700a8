/*
Package cache keeps the per-session presentation state of the RSS feed frontend in memory.

Sessions expire after a period of inactivity. Nothing is persisted: a restart starts
every viewer with an empty state.
*/
package cache

import (
	"sync"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/Nexora-Open-Source/rss-feed-frontend/view"
	"github.com/sirupsen/logrus"
)

// CacheItem represents a cached session state with expiration
type CacheItem struct {
	State     *view.State
	ExpiresAt time.Time
}

// IsExpired checks if the cache item has expired
func (c *CacheItem) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Cache interface defines session storage operations
type Cache interface {
	Get(key string) (*view.State, bool)
	Set(key string, state *view.State, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Len() int
}

// InMemoryCache implements an in-memory cache with TTL support
type InMemoryCache struct {
	items map[string]*CacheItem
	mutex sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewInMemoryCache creates a new in-memory cache that drops expired
// entries every cleanupInterval
func NewInMemoryCache(defaultTTL, cleanupInterval time.Duration) *InMemoryCache {
	cache := &InMemoryCache{
		items: make(map[string]*CacheItem),
		ttl:   defaultTTL,
		stop:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go cache.startCleanup(cleanupInterval)
	}

	return cache
}

// Get retrieves a session state
func (c *InMemoryCache) Get(key string) (*view.State, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.items[key]
	if !exists || item.IsExpired() {
		return nil, false
	}

	return item.State, true
}

// Set stores a session state, replacing any previous one
func (c *InMemoryCache) Set(key string, state *view.State, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &CacheItem{
		State:     state,
		ExpiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a session
func (c *InMemoryCache) Delete(key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
	return nil
}

// Clear removes all sessions
func (c *InMemoryCache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*CacheItem)
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (c *InMemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// Stop ends the cleanup goroutine
func (c *InMemoryCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// startCleanup periodically removes expired items
func (c *InMemoryCache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired items
func (c *InMemoryCache) cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.items {
		if item.IsExpired() {
			delete(c.items, key)
		}
	}
	monitoring.UpdateActiveSessions(len(c.items))
}

// SessionManager loads and stores session states
type SessionManager struct {
	cache    Cache
	logger   *logrus.Logger
	ttl      time.Duration
	location *time.Location
}

// NewSessionManager creates a session manager. New sessions start in loc.
func NewSessionManager(cache Cache, logger *logrus.Logger, ttl time.Duration, loc *time.Location) *SessionManager {
	return &SessionManager{
		cache:    cache,
		logger:   logger,
		ttl:      ttl,
		location: loc,
	}
}

// Load returns the state of a session, or a fresh empty state for an unknown one
func (sm *SessionManager) Load(sessionID string) *view.State {
	state, found := sm.cache.Get(sessionID)
	if found {
		monitoring.RecordSessionHit()
		sm.logger.WithField("session_id", sessionID).Debug("Session state found")
		return state
	}

	monitoring.RecordSessionMiss()
	sm.logger.WithField("session_id", sessionID).Debug("Starting new session state")
	return view.New(sm.location)
}

// Save replaces the state of a session. The last save wins.
func (sm *SessionManager) Save(sessionID string, state *view.State) error {
	if err := sm.cache.Set(sessionID, state, sm.ttl); err != nil {
		sm.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to store session state")
		return err
	}

	monitoring.UpdateActiveSessions(sm.cache.Len())
	sm.logger.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"articles_count": len(state.Articles),
		"displayed":      len(state.Displayed),
	}).Debug("Stored session state")
	return nil
}

// Forget drops a session
func (sm *SessionManager) Forget(sessionID string) error {
	return sm.cache.Delete(sessionID)
}

// ClearAll drops every session
func (sm *SessionManager) ClearAll() error {
	if err := sm.cache.Clear(); err != nil {
		sm.logger.WithError(err).Error("Failed to clear sessions")
		return err
	}

	monitoring.UpdateActiveSessions(0)
	sm.logger.Info("Sessions cleared successfully")
	return nil
}
