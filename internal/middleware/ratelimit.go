package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/database"
	"github.com/conectahn/wifi-portal-backend/pkg/clientip"
)

const (
	// RateLimitWindow bounds how many requests one device may send; the
	// captive portal page needs only a handful per registration.
	RateLimitWindow      = 120 * time.Second
	RateLimitMaxRequests = 25
	rateLimitKeyPrefix   = "ratelimit:"
	blockedIPKeyPrefix   = "blocked_ip:"
	blockedIPDuration    = 24 * time.Hour
)

// RateLimit counts requests per IP in Redis and temporarily blocks devices
// that exceed the window. Fails open: if Redis is down, requests pass.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if database.RedisClient == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.FromRequest(r)
		ctx := context.Background()

		blockedKey := blockedIPKeyPrefix + ip
		if blocked, err := database.RedisClient.Exists(ctx, blockedKey).Result(); err == nil && blocked > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"Your device has been temporarily blocked due to excessive requests. Please try again later."}`))
			return
		}

		rateKey := rateLimitKeyPrefix + ip
		count, err := database.RedisClient.Incr(ctx, rateKey).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, rateKey, RateLimitWindow)
		}

		if count > RateLimitMaxRequests {
			database.RedisClient.Set(ctx, blockedKey, "1", blockedIPDuration)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(fmt.Sprintf(`{"success":false,"error":"Rate limit exceeded. Your device has been temporarily blocked.","retry_after":%d}`, int(RateLimitWindow.Seconds()))))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}
