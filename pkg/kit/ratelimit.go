package kit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// IPRateLimiter is a sliding-window limiter keyed by client IP. A limit of
// zero or less disables it. X-Forwarded-For is only honoured when the direct
// peer is a trusted proxy.
type IPRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	hits    map[string][]time.Time
	now     func() time.Time
	proxies map[string]struct{}
}

func NewIPRateLimiter(limit int, window time.Duration, trustedProxies ...string) *IPRateLimiter {
	l := &IPRateLimiter{
		limit:   limit,
		window:  window,
		hits:    make(map[string][]time.Time),
		now:     time.Now,
		proxies: make(map[string]struct{}, len(trustedProxies)),
	}
	for _, p := range trustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			l.proxies[p] = struct{}{}
		}
	}
	return l
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if l.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientIP(r)) {
			WriteError(w, r, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *IPRateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := prune(l.hits[key], cutoff)
	if len(ts) >= l.limit {
		l.hits[key] = ts
		return false
	}

	l.hits[key] = append(ts, now)
	return true
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	n := 0
	for _, t := range ts {
		if t.After(cutoff) {
			ts[n] = t
			n++
		}
	}
	return ts[:n]
}

// clientIP keys requests by the direct peer. Behind a trusted proxy it uses
// the last X-Forwarded-For hop, which that proxy appended itself.
func (l *IPRateLimiter) clientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		peer = host
	}

	if _, trusted := l.proxies[peer]; !trusted {
		return peer
	}
	if ip := lastForwardedFor(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	return peer
}

func lastForwardedFor(xff string) string {
	if i := strings.LastIndexByte(xff, ','); i >= 0 {
		xff = xff[i+1:]
	}
	return strings.TrimSpace(xff)
}
