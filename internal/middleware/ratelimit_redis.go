package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nochase/nochase/internal/model"
)

// RedisRateLimiter counts requests per client IP in Redis so several store
// instances share one budget. Each IP gets perMinute+burst requests per
// window; the window starts at the IP's first request.
type RedisRateLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, perMinute, burst int) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		max:    int64(perMinute + burst),
		window: time.Minute,
		prefix: "nochase:ratelimit:",
	}
}

// Allow fails open when Redis is unreachable.
func (rl *RedisRateLimiter) Allow(ctx context.Context, ip string) bool {
	if rl.max <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	key := rl.prefix + ip
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("rate limit store unavailable", "error", err)
		return true
	}
	if count == 1 {
		err = rl.client.Expire(ctx, key, rl.window).Err()
		if err != nil {
			slog.Warn("failed to set rate limit window", "error", err, "ip", ip)
		}
	}

	return count <= rl.max
}

func (rl *RedisRateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		if !rl.Allow(r.Context(), ip) {
			slog.Warn("rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
			)
			writeError(w, http.StatusTooManyRequests, model.CodeRateLimited, "too many requests, please try again later")
			return
		}

		next(w, r)
	}
}
