package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts attempts per key in fixed Redis windows.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: client, limit: limit, window: window}
}

// Allow records one attempt for key and reports whether it fits the window.
// retryAfter is only meaningful when the attempt is refused.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, retryAfter time.Duration, err error) {
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("rate limiter error: %w", err)
	}
	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	if count > int64(rl.limit) {
		ttl, _ := rl.redis.TTL(ctx, key).Result()
		return false, 0, ttl, nil
	}
	return true, rl.limit - int(count), 0, nil
}

// ByIP limits requests per route and client IP. Redis failures let the
// request through.
func (rl *RateLimiter) ByIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:ip:" + c.FullPath() + ":" + c.ClientIP()

		allowed, remaining, retryAfter, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many login attempts. Please try again later.",
				},
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
