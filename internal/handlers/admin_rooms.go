package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"github.com/roomhaven/roomhaven-backend/internal/services"
	"gorm.io/gorm"
)

type RoomInput struct {
	RoomNumber    string  `json:"roomNumber" binding:"required"`
	Type          string  `json:"type" binding:"required,oneof=single double suite deluxe"`
	PricePerNight float64 `json:"pricePerNight" binding:"required,gt=0"`
	IsAvailable   *bool   `json:"isAvailable"`
	Description   string  `json:"description"`
	MaxOccupancy  int     `json:"maxOccupancy" binding:"required,min=1,max=20"`
}

// CreateRoom adds a room to the catalog. Admin only.
func CreateRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RoomInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !models.RoomNumberPattern.MatchString(input.RoomNumber) {
			c.JSON(422, gin.H{"error": "Room number must be 1-10 uppercase letters, digits or dashes"})
			return
		}

		room := models.Room{
			RoomNumber:    input.RoomNumber,
			Type:          models.RoomType(input.Type),
			PricePerNight: input.PricePerNight,
			IsAvailable:   true,
			Description:   input.Description,
			MaxOccupancy:  input.MaxOccupancy,
		}
		if input.IsAvailable != nil {
			room.IsAvailable = *input.IsAvailable
		}

		if result := db.Create(&room); result.Error != nil {
			c.JSON(409, gin.H{"error": "Failed to create room: " + result.Error.Error()})
			return
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		c.JSON(201, room)
	}
}

// UpdateRoom edits room attributes. Admin only.
func UpdateRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid room id"})
			return
		}

		var input RoomInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !models.RoomNumberPattern.MatchString(input.RoomNumber) {
			c.JSON(422, gin.H{"error": "Room number must be 1-10 uppercase letters, digits or dashes"})
			return
		}

		var room models.Room
		if result := db.First(&room, id); result.Error != nil {
			c.JSON(404, gin.H{"error": "Room not found"})
			return
		}

		room.RoomNumber = input.RoomNumber
		room.Type = models.RoomType(input.Type)
		room.PricePerNight = input.PricePerNight
		room.Description = input.Description
		room.MaxOccupancy = input.MaxOccupancy
		if input.IsAvailable != nil {
			room.IsAvailable = *input.IsAvailable
		}

		if result := db.Save(&room); result.Error != nil {
			c.JSON(409, gin.H{"error": "Failed to update room: " + result.Error.Error()})
			return
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		c.JSON(200, room)
	}
}

// DeleteRoom removes a room that has no confirmed bookings. Admin only.
func DeleteRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid room id"})
			return
		}

		var confirmed int64
		db.Model(&models.Booking{}).
			Where("room_id = ? AND status = ?", id, models.BookingStatusConfirmed).
			Count(&confirmed)
		if confirmed > 0 {
			c.JSON(409, gin.H{"error": "Room has confirmed bookings and cannot be deleted"})
			return
		}

		var room models.Room
		if result := db.First(&room, id); result.Error != nil {
			c.JSON(404, gin.H{"error": "Room not found"})
			return
		}

		if result := db.Delete(&room); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete room"})
			return
		}

		if room.ImagePath != "" {
			if err := services.DeleteRoomImage(room.ImagePath); err != nil {
				log.Printf("Failed to delete room image: %v", err)
			}
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		c.JSON(200, gin.H{"message": "Room deleted"})
	}
}

// UploadRoomImage attaches an image to a room, replacing any previous
// one. Admin only.
func UploadRoomImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(422, gin.H{"error": "Invalid room id"})
			return
		}

		var room models.Room
		if result := db.First(&room, id); result.Error != nil {
			c.JSON(404, gin.H{"error": "Room not found"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file required"})
			return
		}

		imageURL, err := services.UploadRoomImage(file, room.RoomNumber)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store image: " + err.Error()})
			return
		}

		oldImage := room.ImagePath
		room.ImagePath = imageURL
		if result := db.Save(&room); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update room"})
			return
		}

		if oldImage != "" {
			if err := services.DeleteRoomImage(oldImage); err != nil {
				log.Printf("Failed to delete old room image: %v", err)
			}
		}

		c.JSON(200, room)
	}
}
