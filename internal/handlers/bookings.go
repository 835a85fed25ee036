package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/booking"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"github.com/roomhaven/roomhaven-backend/internal/services"
	"github.com/roomhaven/roomhaven-backend/pkg/utils"
	"gorm.io/gorm"
)

// ListBookings returns bookings filtered by room, status and date
// bounds.
func ListBookings(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter booking.BookingFilter

		if roomIDStr := c.Query("roomId"); roomIDStr != "" {
			roomID, err := strconv.ParseUint(roomIDStr, 10, 32)
			if err != nil {
				c.JSON(422, gin.H{"error": "Invalid roomId"})
				return
			}
			filter.RoomID = uint(roomID)
		}

		if status := c.Query("status"); status != "" {
			switch models.BookingStatus(status) {
			case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
				filter.Status = models.BookingStatus(status)
			default:
				c.JSON(422, gin.H{"error": "Unknown booking status"})
				return
			}
		}

		if fromStr := c.Query("checkInDate"); fromStr != "" {
			from, err := parseDate(fromStr)
			if err != nil {
				c.JSON(422, gin.H{"error": "Invalid checkInDate, expected YYYY-MM-DD"})
				return
			}
			filter.CheckInFrom = &from
		}

		if untilStr := c.Query("checkOutDate"); untilStr != "" {
			until, err := parseDate(untilStr)
			if err != nil {
				c.JSON(422, gin.H{"error": "Invalid checkOutDate, expected YYYY-MM-DD"})
				return
			}
			filter.CheckOutUntil = &until
		}

		bookings, err := engine.ListBookings(filter)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// GetBooking fetches one booking by its external reference.
func GetBooking(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := engine.BookingByReference(c.Param("reference"))
		if err != nil {
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, b)
	}
}

type UpdateBookingInput struct {
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// UpdateBooking moves a confirmed booking to a new date range.
func UpdateBooking(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		checkIn, err := parseDate(input.CheckInDate)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid checkInDate, expected YYYY-MM-DD"})
			return
		}
		checkOut, err := parseDate(input.CheckOutDate)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid checkOutDate, expected YYYY-MM-DD"})
			return
		}

		b, err := engine.UpdateBooking(c.Param("reference"), checkIn, checkOut)
		if err != nil {
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		c.JSON(200, b)
	}
}

// CancelBooking cancels a confirmed booking and mails the guest.
func CancelBooking(engine *booking.Engine, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := engine.CancelBooking(c.Param("reference"))
		if err != nil {
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		// Notify the cancelling user by email; failure only logs.
		if userID := c.GetUint("userId"); userID != 0 {
			var user models.User
			if err := db.First(&user, userID).Error; err == nil {
				go func(email, ref string) {
					if err := utils.SendBookingCancelledEmail(email, ref); err != nil {
						log.Printf("Failed to send cancellation email: %v", err)
					}
				}(user.Email, b.BookingReference)
			}
		}

		c.JSON(200, b)
	}
}
