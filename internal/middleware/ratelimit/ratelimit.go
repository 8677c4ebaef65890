// Package ratelimit provides a per-client fixed-window rate limiter for
// mutating requests.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter counts requests per client IP in one-minute windows.
type Limiter struct {
	mu          sync.Mutex
	clients     map[string]*clientWindow
	stopCleanup chan struct{}
	stopOnce    sync.Once

	requestsPerMinute int
	cleanupInterval   time.Duration
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

// NewLimiter creates a limiter and starts its background cleanup.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Limiter{
		clients:           make(map[string]*clientWindow),
		stopCleanup:       make(chan struct{}),
		requestsPerMinute: config.RequestsPerMinute,
		cleanupInterval:   config.CleanupInterval,
	}
	go l.startCleanup()
	return l
}

// Allow reports whether a request from the given IP fits in the current
// window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	client, ok := l.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		l.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= l.requestsPerMinute
}

// Middleware limits mutating methods only; reads pass through untouched.
func (l *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				ip := r.RemoteAddr
				if extractIP != nil {
					ip = extractIP(r)
				}
				if !l.Allow(ip) {
					w.Header().Set("Retry-After", "60")
					http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *Limiter) startCleanup() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeStale()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *Limiter) removeStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-2 * time.Minute)
	for ip, client := range l.clients {
		if client.windowStart.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// Shutdown stops the cleanup goroutine.
func (l *Limiter) Shutdown() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}
