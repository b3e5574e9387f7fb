// Package ratelimit provides a per-client fixed-window rate limiter, used
// to slow down credential guessing on the login and register forms.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type window struct {
	start    time.Time
	requests int
}

// Limiter allows a fixed number of requests per client per minute.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window

	perMinute int

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter starts a limiter allowing perMinute requests per client.
// Idle client entries are dropped in the background until Stop is called.
func NewLimiter(perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	l := &Limiter{
		clients:   make(map[string]*window),
		perMinute: perMinute,
		stop:      make(chan struct{}),
	}
	go l.cleanupLoop(5 * time.Minute)
	return l
}

// Allow reports whether a request from the client fits the current window.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) > time.Minute {
		l.clients[client] = &window{start: now, requests: 1}
		return true
	}
	if w.requests >= l.perMinute {
		return false
	}
	w.requests++
	return true
}

// Middleware rejects over-limit requests with 429. Only non-GET requests
// count against the window; rendering the form stays free.
func (l *Limiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !l.Allow(clientAddr(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "too many attempts, retry later", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * time.Minute)
			l.mu.Lock()
			for client, w := range l.clients {
				if w.start.Before(cutoff) {
					delete(l.clients, client)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
