package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"castlehire/pkg/logger"
)

// RateLimitStore is the counter store behind the client rate limiter.
// The store is injected so the request-handling layer owns no process-wide
// mutable state of its own; the in-memory implementation below is the
// single-instance default.
type RateLimitStore interface {
	// Allow records a hit for key and reports whether it is within limit
	// hits per window.
	Allow(key string, limit int, window time.Duration) bool
	Stop()
}

type InMemoryRateLimitStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	stopCh   chan struct{}
}

func NewInMemoryRateLimitStore(window time.Duration) *InMemoryRateLimitStore {
	store := &InMemoryRateLimitStore{
		requests: make(map[string][]time.Time),
		stopCh:   make(chan struct{}),
	}

	go store.cleanup(window)

	return store
}

func (s *InMemoryRateLimitStore) Allow(key string, limit int, window time.Duration) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	valid := s.requests[key][:0]
	for _, ts := range s.requests[key] {
		if now.Sub(ts) < window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= limit {
		s.requests[key] = valid
		return false
	}

	s.requests[key] = append(valid, now)
	return true
}

func (s *InMemoryRateLimitStore) cleanup(window time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, timestamps := range s.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > window {
					delete(s.requests, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryRateLimitStore) Stop() {
	close(s.stopCh)
}

type ClientRateLimiter struct {
	store  RateLimitStore
	limit  int
	window time.Duration
	log    *logger.Logger
}

func NewClientRateLimiter(store RateLimitStore, limit int, window time.Duration, log *logger.Logger) *ClientRateLimiter {
	return &ClientRateLimiter{
		store:  store,
		limit:  limit,
		window: window,
		log:    log,
	}
}

func (rl *ClientRateLimiter) Stop() {
	rl.store.Stop()
}

// ClientRateLimit limits requests per client IP over the limiter's window.
func ClientRateLimit(limiter *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractClientIP(r)

			if clientIP == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.store.Allow(clientIP, limiter.limit, limiter.window) {
				rejectRateLimited(w, limiter.log, r, clientIP)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractClientIP(r *http.Request) string {
	// Trust the first proxy-supplied address when present.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, clientIP string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Rate limit exceeded",
		"request_id", requestID,
		"client_ip", clientIP,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}
