package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/respond"
)

type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimitAuth allows limit requests per client IP per window on the
// credential endpoints. When the counter store is unavailable the request
// is let through.
func RateLimitAuth(counter Counter, limit int, window time.Duration, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:auth:" + ip
			count, err := counter.IncrWithTTL(r.Context(), key, window)
			if err != nil {
				log.Warn(r.Context(), "rate limit counter unavailable", "error", err)
			} else if count > int64(limit) {
				w.Header().Set("Retry-After", retryAfter(window))
				respond.Error(w, http.StatusTooManyRequests, "Too many attempts, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
