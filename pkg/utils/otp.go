package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	OTPExpiration = 15 * time.Minute
)

// GenerateOTP generates a 6-digit OTP based on the given unique key.
// The unique key should be something that changes with each request,
// like email + timestamp, to ensure uniqueness.
func GenerateOTP(uniqueKey string) string {
	h := sha256.New()
	h.Write([]byte(uniqueKey))
	hash := h.Sum(nil)

	// Get 4 bytes from the hash
	num := uint32(hash[0])<<24 | uint32(hash[1])<<16 | uint32(hash[2])<<8 | uint32(hash[3])

	// Convert hash to a 6-digit number (100000-999999)
	otp := 100000 + (num % 900000)

	return fmt.Sprintf("%06d", otp)
}

// GenerateVerificationToken returns the single-use token handed to a
// client after its reset code is verified. Only the hash is stored.
func GenerateVerificationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashVerificationToken returns the storable form of a verification
// token.
func HashVerificationToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
