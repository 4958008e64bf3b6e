package router

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shandysiswandi/seedauth/internal/pkg/config"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

// keyLimiter keeps one token bucket per key and drops idle buckets every
// 512 hits.
type keyLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newKeyLimiter returns nil when rps or burst is not positive, which
// disables limiting.
func newKeyLimiter(rps float64, burst int, idleTTL time.Duration) *keyLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = defaultLimiterIdleTTL
	}
	return &keyLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		byKey:   make(map[string]*limiterEntry),
	}
}

func (l *keyLimiter) allow(key string, now time.Time) bool {
	if l == nil || key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return allowed
}

func (l *keyLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// middlewareRateLimit throttles the routes listed in
// app.server.rate_limit.endpoints per client IP. It must run after
// middlewareIP so RemoteAddr already holds the real client address.
func middlewareRateLimit(cfg config.Config) Middleware {
	endpoints := make(map[string]struct{})
	var limiter *keyLimiter
	if cfg != nil {
		for _, endpoint := range cfg.GetArray("app.server.rate_limit.endpoints") {
			endpoints[endpoint] = struct{}{}
		}
		limiter = newKeyLimiter(
			cfg.GetFloat64("app.server.rate_limit.rps"),
			cfg.GetInt("app.server.rate_limit.burst"),
			cfg.GetMinute("app.server.rate_limit.idle_ttl_minutes"),
		)
	}

	retryAfter := "1"
	if limiter != nil && float64(limiter.limit) < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(limiter.limit))))
	}

	return func(next http.Handler) http.Handler {
		if limiter == nil || len(endpoints) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			if _, limited := endpoints[route]; !limited {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.allow(route+"|"+clientKey(r), time.Now()) {
				w.Header().Set("Retry-After", retryAfter)
				writeJSON(w, errorResponse{Message: "Too many requests"}, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
