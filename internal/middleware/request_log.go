package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"gorm.io/gorm"
)

// LogAPIRequest records every handled API request into the
// api_request_logs table. The write happens off the request goroutine
// and a failed write only logs a warning.
func LogAPIRequest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := models.APIRequestLog{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			ClientIP:   c.ClientIP(),
		}
		if userID := c.GetUint("userId"); userID != 0 {
			entry.UserID = &userID
		}
		if clientID, ok := c.Get("apiClientId"); ok {
			if id, ok := clientID.(uint); ok {
				entry.APIClientID = &id
			}
		}

		go func() {
			if err := db.Create(&entry).Error; err != nil {
				log.Printf("Failed to write API request log: %v", err)
			}
		}()
	}
}
