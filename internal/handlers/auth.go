package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"github.com/roomhaven/roomhaven-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Hash the password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
			PhoneNumber:  input.Phone,
			UserType:     string(models.UserTypeGuest),
		}

		if result := db.Create(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create user: " + result.Error.Error()})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(201, gin.H{
			"token": token,
			"user": gin.H{
				"id":          user.ID,
				"email":       user.Email,
				"username":    user.Username,
				"phoneNumber": user.PhoneNumber,
				"userType":    user.UserType,
			},
		})
	}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":          user.ID,
				"email":       user.Email,
				"username":    user.Username,
				"phoneNumber": user.PhoneNumber,
				"userType":    user.UserType,
			},
		})
	}
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset issues a one-time reset code and emails it to
// the user. The response is identical whether or not the account
// exists.
func RequestPasswordReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ForgotPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(200, gin.H{"message": "If the email exists, a reset code has been sent"})
			return
		}

		// Invalidate any outstanding reset codes for this user
		db.Model(&models.OTP{}).
			Where("user_id = ? AND type = ? AND used = ? AND expires_at > ?",
				user.ID, models.OTPTypePasswordReset, false, time.Now()).
			Update("used", true)

		timestamp := time.Now().Format("20060102150405")
		uniqueKey := fmt.Sprintf("%s-password-reset-%s", user.Email, timestamp)
		otp := utils.GenerateOTP(uniqueKey)

		otpRecord := models.OTP{
			UserID:    user.ID,
			Code:      otp,
			Type:      models.OTPTypePasswordReset,
			ExpiresAt: time.Now().Add(utils.OTPExpiration),
		}

		if result := db.Create(&otpRecord); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to generate reset code"})
			return
		}

		if err := utils.SendPasswordResetEmail(user.Email, otp); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send reset email"})
			return
		}

		c.JSON(200, gin.H{"message": "If the email exists, a reset code has been sent"})
	}
}

type VerifyResetCodeInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifyPasswordResetCode checks a reset code and, on success, issues a
// single-use verification token that ResetPassword requires. Only the
// token's hash is stored, on the code's own row, so it shares the
// code's expiry.
func VerifyPasswordResetCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyResetCodeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		otp, _, ok := findValidResetCode(db, input.Email, input.Code)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid or expired reset code"})
			return
		}

		token, err := utils.GenerateVerificationToken()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate verification token"})
			return
		}

		otp.VerificationToken = utils.HashVerificationToken(token)
		if err := db.Save(otp).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to store verification token"})
			return
		}

		c.JSON(200, gin.H{
			"message":           "Code verified",
			"verificationToken": token,
			"expiresAt":         otp.ExpiresAt,
		})
	}
}

type ResetPasswordInput struct {
	Email             string `json:"email" binding:"required,email"`
	VerificationToken string `json:"verificationToken" binding:"required"`
	NewPassword       string `json:"newPassword" binding:"required,min=8"`
}

// ResetPassword consumes the verification token issued by
// VerifyPasswordResetCode and sets the new password.
func ResetPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		otp, user, ok := findVerifiedResetToken(db, input.Email, input.VerificationToken)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid or expired verification token"})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Model(user).Update("password_hash", string(hashedPassword)).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update password"})
			return
		}

		if err := otp.MarkAsUsed(db); err != nil {
			c.JSON(500, gin.H{"error": "Failed to invalidate reset code"})
			return
		}

		c.JSON(200, gin.H{"message": "Password reset successfully"})
	}
}

func findValidResetCode(db *gorm.DB, email, code string) (*models.OTP, *models.User, bool) {
	var user models.User
	if result := db.Where("email = ?", email).First(&user); result.Error != nil {
		return nil, nil, false
	}

	var otp models.OTP
	result := db.Where("user_id = ? AND code = ? AND type = ?", user.ID, code, models.OTPTypePasswordReset).
		Order("created_at DESC").
		First(&otp)
	if result.Error != nil || !otp.IsValid() {
		return nil, nil, false
	}
	return &otp, &user, true
}

func findVerifiedResetToken(db *gorm.DB, email, token string) (*models.OTP, *models.User, bool) {
	var user models.User
	if result := db.Where("email = ?", email).First(&user); result.Error != nil {
		return nil, nil, false
	}

	var otp models.OTP
	result := db.Where("user_id = ? AND type = ? AND verification_token = ?",
		user.ID, models.OTPTypePasswordReset, utils.HashVerificationToken(token)).
		Order("created_at DESC").
		First(&otp)
	if result.Error != nil || !otp.IsValid() {
		return nil, nil, false
	}
	return &otp, &user, true
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword lets an authenticated user rotate their password.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if err := user.CheckPassword(input.CurrentPassword); err != nil {
			c.JSON(401, gin.H{"error": "Current password is incorrect"})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Model(&user).Update("password_hash", string(hashedPassword)).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update password"})
			return
		}

		c.JSON(200, gin.H{"message": "Password changed successfully"})
	}
}
