package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking holds a reservation of a single room for a date range. The
// booking reference, not the numeric ID, is the key exposed to API
// clients and passed to the payment gateway as correlation metadata.
type Booking struct {
	gorm.Model
	BookingReference string        `json:"bookingReference" gorm:"column:booking_reference;unique;not null"`
	RoomID           uint          `json:"roomId" gorm:"not null"`
	Room             Room          `json:"room"`
	CheckInDate      time.Time     `json:"checkInDate" gorm:"column:check_in_date;not null"`
	CheckOutDate     time.Time     `json:"checkOutDate" gorm:"column:check_out_date;not null"`
	TotalPrice       float64       `json:"totalPrice" gorm:"column:total_price;not null"`
	Status           BookingStatus `json:"status" gorm:"column:status;not null;default:'pending'"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// Nights returns the whole-day span of the booking, the multiplier used
// for pricing.
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate) / (24 * time.Hour))
}
