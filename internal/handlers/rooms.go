package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/booking"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"github.com/roomhaven/roomhaven-backend/internal/services"
)

// ListAvailableRooms returns rooms open for booking, optionally
// narrowed by date range, type and occupancy. Listings are cached in
// Redis for a minute keyed by the filter.
func ListAvailableRooms(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter booking.RoomFilter

		checkInStr := c.Query("checkInDate")
		checkOutStr := c.Query("checkOutDate")
		if checkInStr != "" && checkOutStr != "" {
			checkIn, err := parseDate(checkInStr)
			if err != nil {
				c.JSON(422, gin.H{"error": "Invalid checkInDate, expected YYYY-MM-DD"})
				return
			}
			checkOut, err := parseDate(checkOutStr)
			if err != nil {
				c.JSON(422, gin.H{"error": "Invalid checkOutDate, expected YYYY-MM-DD"})
				return
			}
			filter.CheckIn = &checkIn
			filter.CheckOut = &checkOut
		}

		if roomType := c.Query("roomType"); roomType != "" {
			if !models.ValidRoomType(roomType) {
				c.JSON(422, gin.H{"error": "Unknown room type"})
				return
			}
			filter.RoomType = roomType
		}

		if occStr := c.Query("maxOccupancy"); occStr != "" {
			occ, err := strconv.Atoi(occStr)
			if err != nil || occ < 1 {
				c.JSON(422, gin.H{"error": "maxOccupancy must be a positive integer"})
				return
			}
			filter.MinOccupancy = occ
		}

		cacheKey := fmt.Sprintf("%s:%s:%s:%d", checkInStr, checkOutStr, filter.RoomType, filter.MinOccupancy)
		if cached, err := services.GetCachedAvailableRooms(c.Request.Context(), cacheKey); err == nil && cached != nil {
			c.JSON(200, gin.H{"rooms": cached})
			return
		}

		rooms, err := engine.AvailableRooms(filter)
		if err != nil {
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		if err := services.CacheAvailableRooms(c.Request.Context(), cacheKey, rooms); err != nil {
			log.Printf("Failed to cache room listing: %v", err)
		}

		c.JSON(200, gin.H{"rooms": rooms})
	}
}

// GetRoom returns a single room if it exists and is open for booking.
func GetRoom(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid room id"})
			return
		}

		room, err := engine.AvailableRoom(uint(id))
		if err != nil {
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, room)
	}
}

type ReserveInput struct {
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// ReserveRoom creates a pending booking and, when the payment gateway
// is configured, returns the checkout URL the guest should be
// redirected to.
func ReserveRoom(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid room id"})
			return
		}

		var input ReserveInput
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

		b, checkoutURL, err := engine.Reserve(uint(id), checkIn, checkOut)
		if err != nil {
			if b != nil {
				// The booking exists but the checkout session could not be
				// created; surface both so the caller can retry payment.
				c.JSON(502, gin.H{"error": err.Error(), "booking": b})
				return
			}
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		c.JSON(201, gin.H{"booking": b, "checkoutUrl": checkoutURL})
	}
}
