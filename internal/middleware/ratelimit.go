package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/services"
)

// RateLimit allows at most limit requests per window per client IP and
// route. Redis errors fail open so a cache outage does not take the API
// down with it.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())

		allowed, err := services.RateLimitAllow(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			c.JSON(429, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
