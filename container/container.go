/*
Package container provides dependency injection capabilities for the RSS Feed frontend.

This package implements a simple dependency injection container that helps manage
service dependencies and reduces tight coupling between components.
*/
package container

import (
	"fmt"
	"sync"

	"github.com/Nexora-Open-Source/rss-feed-frontend/backend"
	"github.com/Nexora-Open-Source/rss-feed-frontend/cache"
	"github.com/Nexora-Open-Source/rss-feed-frontend/handlers"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/sirupsen/logrus"
)

// Container holds all service dependencies
type Container struct {
	mu           sync.RWMutex
	services     map[string]interface{}
	factories    map[string]func() (interface{}, error)
	singletons   map[string]interface{}
	sessionCache *cache.InMemoryCache
	alertManager *monitoring.AlertManager
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		services:   make(map[string]interface{}),
		factories:  make(map[string]func() (interface{}, error)),
		singletons: make(map[string]interface{}),
	}
}

// Register registers a service instance
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterFactory registers a factory function for lazy service creation
func (c *Container) RegisterFactory(name string, factory func() (interface{}, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// RegisterSingleton registers a singleton service
func (c *Container) RegisterSingleton(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[name] = service
}

// Get retrieves a service by name
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Check if service is already registered
	if service, exists := c.services[name]; exists {
		return service, nil
	}

	// Check if it's a singleton
	if singleton, exists := c.singletons[name]; exists {
		return singleton, nil
	}

	// Check if there's a factory for this service
	if factory, exists := c.factories[name]; exists {
		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service %s: %v", name, err)
		}
		return service, nil
	}

	return nil, fmt.Errorf("service %s not found", name)
}

// GetLogger retrieves the logger service
func (c *Container) GetLogger() (*logrus.Logger, error) {
	service, err := c.Get("logger")
	if err != nil {
		return nil, err
	}
	logger, ok := service.(*logrus.Logger)
	if !ok {
		return nil, fmt.Errorf("logger service is not of expected type")
	}
	return logger, nil
}

// GetBackendClient retrieves the RSS backend client
func (c *Container) GetBackendClient() (*backend.Client, error) {
	service, err := c.Get("backend")
	if err != nil {
		return nil, err
	}
	client, ok := service.(*backend.Client)
	if !ok {
		return nil, fmt.Errorf("backend service is not of expected type")
	}
	return client, nil
}

// GetSessionManager retrieves the session manager
func (c *Container) GetSessionManager() (*cache.SessionManager, error) {
	service, err := c.Get("sessions")
	if err != nil {
		return nil, err
	}
	sessions, ok := service.(*cache.SessionManager)
	if !ok {
		return nil, fmt.Errorf("sessions service is not of expected type")
	}
	return sessions, nil
}

// GetAlertManager retrieves the alert manager
func (c *Container) GetAlertManager() (*monitoring.AlertManager, error) {
	service, err := c.Get("alerts")
	if err != nil {
		return nil, err
	}
	alerts, ok := service.(*monitoring.AlertManager)
	if !ok {
		return nil, fmt.Errorf("alerts service is not of expected type")
	}
	return alerts, nil
}

// GetHandler retrieves the handler service
func (c *Container) GetHandler() (*handlers.Handler, error) {
	service, err := c.Get("handler")
	if err != nil {
		return nil, err
	}
	handler, ok := service.(*handlers.Handler)
	if !ok {
		return nil, fmt.Errorf("handler service is not of expected type")
	}
	return handler, nil
}

// InitializeServices initializes all core services with proper dependencies
func (c *Container) InitializeServices(
	client *backend.Client,
	sessionCache *cache.InMemoryCache,
	sessions *cache.SessionManager,
	alerts *monitoring.AlertManager,
	logger *logrus.Logger,
	version string,
) error {
	if client == nil || sessions == nil {
		return fmt.Errorf("backend client and session manager are required")
	}

	// Register core services
	c.RegisterSingleton("logger", logger)
	c.RegisterSingleton("backend", client)
	c.RegisterSingleton("sessions", sessions)
	c.RegisterSingleton("alerts", alerts)

	c.mu.Lock()
	c.sessionCache = sessionCache
	c.alertManager = alerts
	c.mu.Unlock()

	// Register handler factory that depends on other services
	c.RegisterFactory("handler", func() (interface{}, error) {
		return handlers.NewHandler(client, sessions, logger, version), nil
	})

	return nil
}

// Close stops the background work of the registered services
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionCache != nil {
		c.sessionCache.Stop()
	}
	if c.alertManager != nil {
		c.alertManager.Stop()
	}

	return nil
}
