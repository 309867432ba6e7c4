package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter enforces a per-client requests-per-minute budget. A zero or
// negative budget disables limiting entirely.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	rpm     int
}

func New(rpm int) *Limiter {
	return &Limiter{
		clients: make(map[string]*rate.Limiter),
		rpm:     rpm,
	}
}

// Allow reports whether the client may make another request now.
func (l *Limiter) Allow(clientID string) bool {
	if l.rpm <= 0 {
		return true
	}

	l.mu.Lock()
	lim, ok := l.clients[clientID]
	if !ok {
		// budget refills continuously, burst covers the full minute
		lim = rate.NewLimiter(rate.Limit(float64(l.rpm)/60.0), l.rpm)
		l.clients[clientID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}
