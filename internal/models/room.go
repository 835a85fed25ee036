package models

import (
	"regexp"

	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
	RoomTypeDeluxe RoomType = "deluxe"
)

// RoomNumberPattern matches the admin-panel constraint on room numbers:
// uppercase letters, digits and dashes, at most 10 characters.
var RoomNumberPattern = regexp.MustCompile(`^[A-Z0-9-]{1,10}$`)

type Room struct {
	gorm.Model
	RoomNumber    string   `json:"roomNumber" gorm:"column:room_number;unique;not null"`
	Type          RoomType `json:"type" gorm:"column:type;not null"`
	PricePerNight float64  `json:"pricePerNight" gorm:"column:price_per_night;not null"`
	IsAvailable   bool     `json:"isAvailable" gorm:"column:is_available;default:true"`
	Description   string   `json:"description" gorm:"column:description;type:text"`
	MaxOccupancy  int      `json:"maxOccupancy" gorm:"column:max_occupancy;default:1"`
	ImagePath     string   `json:"imagePath" gorm:"column:image_path"`
}

// TableName specifies the table name
func (Room) TableName() string {
	return "rooms"
}

// ValidRoomType reports whether t is one of the supported room types.
func ValidRoomType(t string) bool {
	switch RoomType(t) {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe:
		return true
	}
	return false
}
