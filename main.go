/*
Package main runs the RSS Feed frontend.

The frontend serves a single page and a small JSON API on top of the RSS feed backend.
It keeps a presentation state per viewer session: the article collection, the source
registry and the applied source/time filter, from which the displayed articles are
derived.

Run the server:

	$ BACKEND_URL=http://localhost:8080 go run . serve

Endpoints:
  - GET /: The reader page.
  - GET /api/view: The session view as JSON.
  - PUT /api/filter, DELETE /api/filter: Apply or clear the source/time filter.
  - POST /api/articles/reload, GET /api/search, POST /api/refresh: Load articles.
  - GET /api/sources, POST /api/sources, DELETE /api/sources/{name}: Manage sources.
*/
package main

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/config"
	_ "github.com/Nexora-Open-Source/rss-feed-frontend/docs"
	"github.com/Nexora-Open-Source/rss-feed-frontend/handlers"
	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	clients map[string]*ClientLimiter
	mutex   sync.RWMutex
	rate    rate.Limit
	burst   int
}

// ClientLimiter represents a rate limiter for a specific client
type ClientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*ClientLimiter),
		rate:    r,
		burst:   b,
	}
}

// Allow checks if a client is allowed to make a request
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if _, exists := rl.clients[clientID]; !exists {
		rl.clients[clientID] = &ClientLimiter{
			limiter:  rate.NewLimiter(rl.rate, rl.burst),
			lastSeen: time.Now(),
		}
	}

	rl.clients[clientID].lastSeen = time.Now()
	return rl.clients[clientID].limiter.Allow()
}

// Cleanup removes stale client entries
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for clientID, client := range rl.clients {
		if time.Since(client.lastSeen) > 5*time.Minute {
			delete(rl.clients, clientID)
		}
	}
}

func main() {
	Execute()
}

// newRouter registers every route of the frontend
func newRouter(handler *handlers.Handler, limiter *RateLimiter, sessionCookie string) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFoundHandler()

	// Setup metrics endpoint
	monitoring.SetupMetricsEndpoint(router)

	// Setup health check endpoints (no rate limiting)
	router.HandleFunc("/health", handler.HandleHealthCheck).Methods("GET")
	router.HandleFunc("/health/live", handler.HandleLivenessCheck).Methods("GET")
	router.HandleFunc("/health/ready", handler.HandleReadinessCheck).Methods("GET")

	// Setup Swagger documentation
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Page and API routes with rate limiting and monitoring middleware
	limited := func(next http.HandlerFunc) http.HandlerFunc {
		return MonitoringMiddleware(RateLimitMiddleware(limiter, sessionCookie, next))
	}
	router.HandleFunc("/", limited(handler.HandlePage)).Methods("GET")
	router.HandleFunc("/api/view", limited(handler.HandleGetView)).Methods("GET")
	router.HandleFunc("/api/filter", limited(handler.HandleApplyFilter)).Methods("PUT")
	router.HandleFunc("/api/filter", limited(handler.HandleClearFilter)).Methods("DELETE")
	router.HandleFunc("/api/articles/reload", limited(handler.HandleReloadArticles)).Methods("POST")
	router.HandleFunc("/api/search", limited(handler.HandleSearch)).Methods("GET")
	router.HandleFunc("/api/refresh", limited(handler.HandleRefresh)).Methods("POST")
	router.HandleFunc("/api/sources", limited(handler.HandleListSources)).Methods("GET")
	router.HandleFunc("/api/sources", limited(handler.HandleAddSource)).Methods("POST")
	router.HandleFunc("/api/sources/{name}", limited(handler.HandleRemoveSource)).Methods("DELETE")

	return router
}

// newServerHandler wraps the router with the request-scoped middleware
func newServerHandler(router http.Handler, appConfig *config.Config) http.Handler {
	// Apply logging middleware
	withLogging := middleware.LoggingMiddleware(router)

	// Attach the viewer session
	withSession := middleware.SessionMiddleware(appConfig.SessionCookie, appConfig.SecureCookies)(withLogging)

	// Attach the CORS middleware with enhanced configuration
	withCORS := CORSMiddleware(withSession, appConfig)

	return middleware.RequestIDMiddleware(withCORS)
}

// MonitoringMiddleware adds metrics and tracing to HTTP handlers
func MonitoringMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := routeTemplate(r)

		// Create tracing span
		ctx, span := monitoring.CreateSpan(r.Context(), fmt.Sprintf("%s %s", r.Method, endpoint))
		defer span.End()

		// Set span attributes
		monitoring.SetSpanAttributes(span, map[string]interface{}{
			"http.method":     r.Method,
			"http.url":        r.URL.String(),
			"http.user_agent": r.UserAgent(),
			"remote.addr":     r.RemoteAddr,
		})

		// Update request context with tracing
		r = r.WithContext(ctx)

		// Wrap response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		// Call the next handler
		next.ServeHTTP(rw, r)

		// Record metrics
		duration := time.Since(start).Seconds()
		status := fmt.Sprintf("%d", rw.statusCode)

		monitoring.RecordHTTPRequest(r.Method, endpoint, status, duration)

		// Update span with response info
		monitoring.SetSpanAttributes(span, map[string]interface{}{
			"http.status_code": rw.statusCode,
			"duration_seconds": duration,
		})

		// Record error if status indicates failure
		if rw.statusCode >= 400 {
			monitoring.SetSpanError(span, fmt.Errorf("HTTP %d", rw.statusCode))
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeTemplate returns the matched route pattern, keeping path variables out of metric labels
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return r.URL.Path
}

// getClientIdentifier generates a robust client identifier using multiple factors
func getClientIdentifier(r *http.Request, sessionCookie string) string {
	var identifiers []string

	// 1. IP Address (with X-Forwarded-For support)
	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// Take the first IP from the forwarded chain
		ips := strings.Split(forwarded, ",")
		ip = strings.TrimSpace(ips[0])
	} else if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}
	identifiers = append(identifiers, "ip:"+ip)

	// 2. User Agent (normalized)
	if fields := strings.Fields(strings.ToLower(r.Header.Get("User-Agent"))); len(fields) > 0 {
		// Normalize user agent by keeping its first word
		identifiers = append(identifiers, "ua:"+fields[0])
	}

	// 3. Accept-Language header
	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		// Take first two characters of language code
		lang := strings.ToLower(strings.TrimSpace(acceptLang))
		if len(lang) > 2 {
			lang = lang[:2]
		}
		identifiers = append(identifiers, "lang:"+lang)
	}

	// 4. Session/Cookie identifier (if available)
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		// Hash the cookie value for privacy
		hash := sha256.Sum256([]byte(cookie.Value))
		identifiers = append(identifiers, "sess:"+fmt.Sprintf("%x", hash)[:8])
	}

	// Combine all identifiers
	combined := strings.Join(identifiers, "|")

	// Create final hash for client ID
	finalHash := sha256.Sum256([]byte(combined))
	return fmt.Sprintf("%x", finalHash)[:16]
}

// RateLimitMiddleware implements enhanced rate limiting for HTTP handlers
func RateLimitMiddleware(limiter *RateLimiter, sessionCookie string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Use robust client identifier instead of just IP
		clientID := getClientIdentifier(r, sessionCookie)

		if !limiter.Allow(clientID) {
			middleware.RespondRateLimited(w, r, fmt.Errorf("rate limit exceeded for client %s", clientID))
			return
		}

		next.ServeHTTP(w, r)
	}
}

// getAllowedOrigins returns the appropriate allowed origins based on environment
func getAllowedOrigins(corsConfig config.CORSConfig) []string {
	switch strings.ToLower(corsConfig.Environment) {
	case "production", "prod":
		return corsConfig.ProductionOrigins
	case "staging", "stage":
		return corsConfig.StagingOrigins
	case "development", "dev", "local":
		return corsConfig.DevelopmentOrigins
	default:
		return corsConfig.DevelopmentOrigins
	}
}

// isOriginAllowed checks if the origin is allowed based on CORS configuration
func isOriginAllowed(origin string, corsConfig config.CORSConfig) bool {
	allowedOrigins := getAllowedOrigins(corsConfig)

	// Check exact matches first
	for _, allowedOrigin := range allowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}

	// If subdomains are allowed, check domain patterns
	if corsConfig.AllowSubdomains {
		// Check against explicitly allowed domains
		for _, domain := range corsConfig.AllowedDomains {
			if origin == "https://"+domain || origin == "http://"+domain {
				return true
			}
			if strings.HasSuffix(origin, "."+domain) {
				return true
			}
		}

		// Also check if origin matches any allowed origin with wildcard subdomain
		for _, allowedOrigin := range allowedOrigins {
			if strings.HasPrefix(allowedOrigin, "*.") {
				domain := allowedOrigin[2:] // Remove "*."
				if origin == "https://"+domain || origin == "http://"+domain {
					return true
				}
				if strings.HasSuffix(origin, "."+domain) {
					return true
				}
			}
		}
	}

	return false
}

func CORSMiddleware(next http.Handler, appConfig *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		corsConfig := appConfig.CORSConfig

		// Set CORS headers based on configuration
		if origin != "" && isOriginAllowed(origin, corsConfig) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		// Set allowed methods
		if len(corsConfig.AllowedMethods) > 0 {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(corsConfig.AllowedMethods, ", "))
		} else {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		// Set allowed headers
		if len(corsConfig.AllowedHeaders) > 0 {
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(corsConfig.AllowedHeaders, ", "))
		} else {
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
		}

		// Set exposed headers
		if len(corsConfig.ExposedHeaders) > 0 {
			w.Header().Set("Access-Control-Expose-Headers", strings.Join(corsConfig.ExposedHeaders, ", "))
		}

		// Set credentials
		if corsConfig.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		// Set max age
		if corsConfig.MaxAge > 0 {
			w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", corsConfig.MaxAge))
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
