package booking

import (
	"time"

	"github.com/roomhaven/roomhaven-backend/internal/models"
)

// RoomFilter narrows the available-rooms listing. CheckIn and CheckOut
// are only honored when both are set.
type RoomFilter struct {
	CheckIn      *time.Time
	CheckOut     *time.Time
	RoomType     string
	MinOccupancy int
}

// BookingFilter narrows the bookings listing. CheckInFrom is a lower
// bound on check-in, CheckOutUntil an upper bound on check-out.
type BookingFilter struct {
	RoomID        uint
	Status        models.BookingStatus
	CheckInFrom   *time.Time
	CheckOutUntil *time.Time
}

// RoomStore is the persistence port for the room catalog. Lookups that
// find no row return (nil, nil); the engine maps that to NotFoundError.
type RoomStore interface {
	ListAvailable(roomType string, minOccupancy int) ([]models.Room, error)
	GetAvailable(id uint) (*models.Room, error)
	Get(id uint) (*models.Room, error)
	SetAvailability(id uint, available bool) error
}

// BookingStore is the persistence port for the booking ledger.
type BookingStore interface {
	ConfirmedForRoom(roomID uint) ([]models.Booking, error)
	Create(b *models.Booking) error
	Save(b *models.Booking) error
	ByReference(ref string) (*models.Booking, error)
	List(f BookingFilter) ([]models.Booking, error)
}

// PaymentGateway creates a hosted checkout for the payer. The booking
// reference travels as correlation metadata and comes back on the
// asynchronous completed/cancelled events.
type PaymentGateway interface {
	CreateCheckoutSession(amount float64, currency, bookingReference string) (redirectURL string, err error)
}
