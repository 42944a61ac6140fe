package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dtroode/tooodo-server/internal/logger"
)

// Limiter decides whether a request identified by key may proceed within a
// fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit throttles requests per client IP. It fails open: a limiter
// backend error lets the request through with a warning.
type RateLimit struct {
	limiter Limiter
	limit   int
	window  time.Duration
	logger  *logger.Logger
}

// NewRateLimit creates the middleware with the given backend and budget.
func NewRateLimit(limiter Limiter, limit int, window time.Duration, logger *logger.Logger) *RateLimit {
	return &RateLimit{limiter: limiter, limit: limit, window: window, logger: logger}
}

// Handle rejects requests over budget with 429.
func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := m.limiter.Allow(r.Context(), clientIP(r), m.limit, m.window)
		if err != nil {
			m.logger.Error("rate limiter backend unavailable, allowing request",
				"error", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type window struct {
	count int
	start time.Time
}

// LocalLimiter is an in-process fixed-window limiter used when no redis
// address is configured.
type LocalLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

// NewLocalLimiter creates an in-process limiter.
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{windows: make(map[string]*window)}
}

var _ Limiter = (*LocalLimiter)(nil)

// Allow implements Limiter with a per-key fixed window.
func (l *LocalLimiter) Allow(_ context.Context, key string, limit int, windowSize time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= windowSize {
		l.windows[key] = &window{count: 1, start: now}
		return true, nil
	}

	if w.count >= limit {
		return false, nil
	}
	w.count++
	return true, nil
}
