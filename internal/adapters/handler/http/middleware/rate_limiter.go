package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// API-wide limiter defaults; the router passes these unless a deployment
// overrides them.
const (
	DefaultRequestLimit = 100
	DefaultWindow       = time.Minute
)

const rateKeyPrefix = "ratelimit:ip:"

// RateLimiterMiddleware enforces a fixed-window per-IP request budget
// counted in redis. The limiter fails open: when redis is unreachable
// the request proceeds without counting.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := rateKeyPrefix + c.ClientIP()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("[RATELIMIT] redis unavailable, letting request through: %v", err)
			c.Next()
			return
		}

		// The first hit of a window arms the expiry. If that fails the
		// counter would never reset, so drop it instead of limiting forever.
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.Printf("[RATELIMIT] failed to arm window expiry, dropping key: %v", err)
				rdb.Del(ctx, key)
				c.Next()
				return
			}
		}

		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		c.Next()
	}
}
