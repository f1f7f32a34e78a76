package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Authenticate requires a valid Bearer token and stores the acting user's
// id on the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			h.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := h.authSvc.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			h.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RateLimiter is a Redis fixed-window limiter keyed by authenticated user
// when available, client IP otherwise. The window key carries a TTL so
// per-client state evicts itself.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(cli *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: cli, limit: int64(limit), window: window}
}

func (rl *RateLimiter) Limit(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl == nil || rl.redis == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("ratelimit:%s", rl.clientKey(r))

			count, err := rl.redis.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis being down must not take bookings with it.
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rl.redis.Expire(r.Context(), key, rl.window)
			}
			if count > rl.limit {
				h.respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if userID := userIDFromContext(r.Context()); userID != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
