package booking

import (
	"errors"

	"github.com/roomhaven/roomhaven-backend/internal/models"
	"gorm.io/gorm"
)

// GormRoomStore backs the RoomStore port with the rooms table.
type GormRoomStore struct {
	db *gorm.DB
}

func NewGormRoomStore(db *gorm.DB) *GormRoomStore {
	return &GormRoomStore{db: db}
}

func (s *GormRoomStore) ListAvailable(roomType string, minOccupancy int) ([]models.Room, error) {
	q := s.db.Where("is_available = ?", true)
	if roomType != "" {
		q = q.Where("type = ?", roomType)
	}
	if minOccupancy > 0 {
		q = q.Where("max_occupancy >= ?", minOccupancy)
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *GormRoomStore) GetAvailable(id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.Where("id = ? AND is_available = ?", id, true).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *GormRoomStore) Get(id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *GormRoomStore) SetAvailability(id uint, available bool) error {
	return s.db.Model(&models.Room{}).Where("id = ?", id).Update("is_available", available).Error
}

// GormBookingStore backs the BookingStore port with the bookings table.
type GormBookingStore struct {
	db *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) ConfirmedForRoom(roomID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("room_id = ? AND status = ?", roomID, models.BookingStatusConfirmed).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormBookingStore) Create(b *models.Booking) error {
	return s.db.Create(b).Error
}

func (s *GormBookingStore) Save(b *models.Booking) error {
	return s.db.Save(b).Error
}

func (s *GormBookingStore) ByReference(ref string) (*models.Booking, error) {
	var b models.Booking
	err := s.db.Where("booking_reference = ?", ref).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *GormBookingStore) List(f BookingFilter) ([]models.Booking, error) {
	q := s.db.Preload("Room")
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CheckInFrom != nil {
		q = q.Where("check_in_date >= ?", *f.CheckInFrom)
	}
	if f.CheckOutUntil != nil {
		q = q.Where("check_out_date <= ?", *f.CheckOutUntil)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
