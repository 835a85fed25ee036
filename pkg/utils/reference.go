package utils

import "github.com/google/uuid"

// NewBookingReference produces the opaque, globally unique external
// identifier for a booking: a random 128-bit UUID rendered as text.
func NewBookingReference() string {
	return uuid.NewString()
}
