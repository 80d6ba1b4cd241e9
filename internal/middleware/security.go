package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/conectahn/wifi-portal-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// --- In-process per-IP limiting (production, in front of the Redis limiter) ---

var (
	limiterEntries  = make(map[string]*limiterEntry)
	limiterMu       sync.Mutex
	limiterCleanup  bool
	limiterRPS      = rate.Limit(2)
	limiterBurst    = 10
	cleanupInterval = 5 * time.Minute
	limiterTTL      = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

func getLimiter(ip string) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	startCleanupOnce()
	e, ok := limiterEntries[ip]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(limiterRPS, limiterBurst),
			lastUse: time.Now(),
		}
		limiterEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startCleanupOnce() {
	if limiterCleanup {
		return
	}
	limiterCleanup = true
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			limiterMu.Lock()
			now := time.Now()
			for ip, e := range limiterEntries {
				if now.Sub(e.lastUse) > limiterTTL {
					delete(limiterEntries, ip)
				}
			}
			limiterMu.Unlock()
		}
	}()
}

// PerIPRateLimit limits each device to 2 req/s, burst 10. Returns 429 when exceeded.
func PerIPRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.FromRequest(r)
		if !getLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"Too many requests. Please slow down."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity returns the production middleware chain:
// SecurityHeaders → PerIPRateLimit → RateLimit (Redis-backed).
func ProductionSecurity() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		PerIPRateLimit,
		RateLimit,
	}
}
