package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"gorm.io/gorm"
)

// APIClientAuth authenticates machine consumers by API key and checks
// the named permission scope. The resolved client id is stored in the
// context for the request log.
func APIClientAuth(db *gorm.DB, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.JSON(401, gin.H{"error": "API key required"})
			c.Abort()
			return
		}

		var client models.APIClient
		if result := db.Where("api_key = ? AND active = ?", apiKey, true).First(&client); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		if !client.HasPermission(permission) {
			c.JSON(403, gin.H{"error": "API key lacks required permission"})
			c.Abort()
			return
		}

		c.Set("apiClientId", client.ID)
		c.Next()
	}
}
