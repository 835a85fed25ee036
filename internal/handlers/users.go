package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"gorm.io/gorm"
)

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"userType":    user.UserType,
		})
	}
}

type UpdateProfileInput struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Username != "" {
			user.Username = input.Username
		}
		if input.Phone != "" {
			user.PhoneNumber = input.Phone
		}

		if result := db.Save(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"userType":    user.UserType,
		})
	}
}
