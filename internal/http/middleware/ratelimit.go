package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

const (
	// visitorTTL is how long an idle client keeps its bucket.
	visitorTTL = 10 * time.Minute
	// sweepInterval bounds how often idle buckets are evicted.
	sweepInterval = 5 * time.Minute
)

// RateLimiter enforces a per-client token bucket keyed by IP. Idle clients
// are swept inline under the lock, so there is no background goroutine to
// stop.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perSec    float64
	burst     float64
	logger    *logging.Logger
	nextSweep time.Time
}

// visitor is one client's bucket. tokens refill lazily from the time the
// client was last seen.
type visitor struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows perSec requests per second with the given burst per
// client IP.
func NewRateLimiter(perSec float64, burst int, logger *logging.Logger) *RateLimiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		perSec:    perSec,
		burst:     float64(burst),
		logger:    logger,
		nextSweep: time.Now().Add(sweepInterval),
	}
}

// Allow reports whether a request from ip fits the client's budget and
// spends one token when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweep(now)

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{tokens: rl.burst}
		rl.visitors[ip] = v
	} else {
		v.tokens += now.Sub(v.seen).Seconds() * rl.perSec
		if v.tokens > rl.burst {
			v.tokens = rl.burst
		}
	}
	v.seen = now

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

// sweep drops clients idle past visitorTTL. Caller holds the lock.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Before(rl.nextSweep) {
		return
	}
	rl.nextSweep = now.Add(sweepInterval)

	evicted := 0
	for ip, v := range rl.visitors {
		if now.Sub(v.seen) > visitorTTL {
			delete(rl.visitors, ip)
			evicted++
		}
	}
	if evicted > 0 {
		rl.logger.Debug("rate limiter swept idle clients",
			"evicted", evicted,
			"tracked", len(rl.visitors),
		)
	}
}

// RateLimit rejects requests beyond the per-IP budget with 429 Too Many
// Requests. Denials are logged with the client IP and path.
func RateLimit(perSec float64, burst int, logger *logging.Logger) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(perSec, burst, logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				limiter.logger.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
				)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the X-Real-Ip header set by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
