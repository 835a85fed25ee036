// Package booking implements the reservation engine: room availability
// queries, date-range conflict detection, booking lifecycle transitions
// and price computation. Persistence, payments and the clock are
// injected ports so the engine can be exercised against in-memory
// stores in tests.
package booking

import (
	"fmt"
	"time"

	"github.com/roomhaven/roomhaven-backend/internal/models"
)

// Engine owns all booking business rules. Zero-value fields Now and
// NewReference get sensible defaults from NewEngine.
type Engine struct {
	Rooms    RoomStore
	Bookings BookingStore
	Gateway  PaymentGateway // optional; nil disables checkout creation

	// Now is the clock used for past-date checks.
	Now func() time.Time
	// NewReference produces the opaque booking reference.
	NewReference func() string

	locks roomLocks
}

func NewEngine(rooms RoomStore, bookings BookingStore, gateway PaymentGateway, newReference func() string) *Engine {
	return &Engine{
		Rooms:        rooms,
		Bookings:     bookings,
		Gateway:      gateway,
		Now:          time.Now,
		NewReference: newReference,
	}
}

// dateOnly truncates a timestamp to midnight. All booking math works on
// whole days.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// today is the engine's current date at UTC midnight. Request dates are
// parsed in UTC, so past-date checks must not depend on the server's
// local zone.
func (e *Engine) today() time.Time {
	return dateOnly(e.Now().UTC())
}

// between reports whether t lies in the closed interval [lo, hi].
func between(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// rangesConflict applies the inclusive three-way overlap predicate used
// across all conflict checks: the existing booking's check-in or
// check-out falls inside the requested range, or the existing booking
// fully contains the requested range. Endpoints count, so back-to-back
// stays (check-out equal to the next check-in) conflict.
func rangesConflict(reqIn, reqOut, existingIn, existingOut time.Time) bool {
	return between(existingIn, reqIn, reqOut) ||
		between(existingOut, reqIn, reqOut) ||
		(!existingIn.After(reqIn) && !existingOut.Before(reqOut))
}

// validateStayDates enforces the two date invariants shared by every
// write path: check-out strictly after check-in, check-in not in the
// past.
func (e *Engine) validateStayDates(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return &ValidationError{Message: "Invalid check-in or check-out date."}
	}
	if checkIn.Before(e.today()) {
		return &ValidationError{Message: "Invalid check-in or check-out date."}
	}
	return nil
}

// roomConflicts reports whether any confirmed booking on the room,
// other than excludeID, overlaps the requested range.
func (e *Engine) roomConflicts(roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	confirmed, err := e.Bookings.ConfirmedForRoom(roomID)
	if err != nil {
		return false, err
	}
	for _, b := range confirmed {
		if b.ID == excludeID {
			continue
		}
		if rangesConflict(checkIn, checkOut, b.CheckInDate, b.CheckOutDate) {
			return true, nil
		}
	}
	return false, nil
}

// AvailableRooms lists rooms whose availability flag is set, narrowed
// by type and occupancy, and — when both dates are given — excluding
// rooms with a confirmed booking overlapping the requested range.
func (e *Engine) AvailableRooms(f RoomFilter) ([]models.Room, error) {
	datesGiven := f.CheckIn != nil && f.CheckOut != nil
	var checkIn, checkOut time.Time
	if datesGiven {
		checkIn, checkOut = dateOnly(*f.CheckIn), dateOnly(*f.CheckOut)
		if err := e.validateStayDates(checkIn, checkOut); err != nil {
			return nil, err
		}
	}

	rooms, err := e.Rooms.ListAvailable(f.RoomType, f.MinOccupancy)
	if err != nil {
		return nil, err
	}
	if !datesGiven {
		return rooms, nil
	}

	free := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		conflict, err := e.roomConflicts(room.ID, checkIn, checkOut, 0)
		if err != nil {
			return nil, err
		}
		if !conflict {
			free = append(free, room)
		}
	}
	return free, nil
}

// AvailableRoom fetches a single room with its availability flag set.
// There is no date filtering at this level.
func (e *Engine) AvailableRoom(roomID uint) (*models.Room, error) {
	room, err := e.Rooms.GetAvailable(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &NotFoundError{Message: "Room not found or not available."}
	}
	return room, nil
}

// Reserve creates a pending booking for the room over [checkIn,
// checkOut). The overlap check and insert run under the room's lock so
// concurrent reservation attempts on the same room serialize. The
// room's availability flag is left untouched: pending holds may
// coexist, only a confirmed booking blocks other reservations.
//
// When a payment gateway is configured, a checkout session is created
// after the booking is persisted; if that call fails the booking stays
// pending and the error is returned alongside it.
func (e *Engine) Reserve(roomID uint, checkIn, checkOut time.Time) (*models.Booking, string, error) {
	checkIn, checkOut = dateOnly(checkIn), dateOnly(checkOut)
	if err := e.validateStayDates(checkIn, checkOut); err != nil {
		return nil, "", err
	}

	b, err := e.createPending(roomID, checkIn, checkOut)
	if err != nil {
		return nil, "", err
	}

	if e.Gateway == nil {
		return b, "", nil
	}
	url, err := e.Gateway.CreateCheckoutSession(b.TotalPrice, "usd", b.BookingReference)
	if err != nil {
		// The pending booking stays; the caller decides how to retry payment.
		return b, "", fmt.Errorf("failed to create checkout session: %v", err)
	}
	return b, url, nil
}

// createPending holds the room lock across the check-then-act sequence.
func (e *Engine) createPending(roomID uint, checkIn, checkOut time.Time) (*models.Booking, error) {
	mu := e.locks.forRoom(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := e.Rooms.GetAvailable(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &NotFoundError{Message: "Room not found or not available."}
	}

	conflict, err := e.roomConflicts(roomID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, &ConflictError{Message: "Room is already booked for the selected dates."}
	}

	nights := int(checkOut.Sub(checkIn) / (24 * time.Hour))
	b := &models.Booking{
		BookingReference: e.NewReference(),
		RoomID:           room.ID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		TotalPrice:       float64(nights) * room.PricePerNight,
		Status:           models.BookingStatusPending,
	}
	if err := e.Bookings.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns bookings matching the filter. No ordering is
// guaranteed.
func (e *Engine) ListBookings(f BookingFilter) ([]models.Booking, error) {
	return e.Bookings.List(f)
}

// BookingByReference fetches a booking by its external reference.
func (e *Engine) BookingByReference(ref string) (*models.Booking, error) {
	b, err := e.Bookings.ByReference(ref)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &NotFoundError{Message: "Booking not found."}
	}
	return b, nil
}

// UpdateBooking moves a confirmed, still-future booking to a new date
// range, re-checking overlap against all other confirmed bookings on
// the room and recomputing the price at the room's current rate.
func (e *Engine) UpdateBooking(ref string, checkIn, checkOut time.Time) (*models.Booking, error) {
	checkIn, checkOut = dateOnly(checkIn), dateOnly(checkOut)

	b, err := e.BookingByReference(ref)
	if err != nil {
		return nil, err
	}

	mu := e.locks.forRoom(b.RoomID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the lock; a concurrent cancel or payment event may
	// have moved the booking since the first lookup.
	b, err = e.BookingByReference(ref)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, &StateError{Message: "Booking not found or not confirmed."}
	}
	if b.CheckInDate.Before(e.today()) {
		return nil, &StateError{Message: "Cannot update past bookings."}
	}
	if err := e.validateStayDates(checkIn, checkOut); err != nil {
		return nil, err
	}

	conflict, err := e.roomConflicts(b.RoomID, checkIn, checkOut, b.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, &ConflictError{Message: "Room is already booked for the selected dates."}
	}

	room, err := e.Rooms.Get(b.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &NotFoundError{Message: "Room not found or not available."}
	}

	nights := int(checkOut.Sub(checkIn) / (24 * time.Hour))
	b.CheckInDate = checkIn
	b.CheckOutDate = checkOut
	b.TotalPrice = float64(nights) * room.PricePerNight
	if err := e.Bookings.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking cancels a confirmed, still-future booking and flips the
// room's availability flag back on.
func (e *Engine) CancelBooking(ref string) (*models.Booking, error) {
	b, err := e.BookingByReference(ref)
	if err != nil {
		return nil, err
	}

	mu := e.locks.forRoom(b.RoomID)
	mu.Lock()
	defer mu.Unlock()

	b, err = e.BookingByReference(ref)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, &StateError{Message: "Booking not found or not confirmed."}
	}
	if b.CheckInDate.Before(e.today()) {
		return nil, &StateError{Message: "Cannot cancel past bookings."}
	}

	b.Status = models.BookingStatusCancelled
	if err := e.Bookings.Save(b); err != nil {
		return nil, err
	}
	if err := e.Rooms.SetAvailability(b.RoomID, true); err != nil {
		return nil, err
	}
	return b, nil
}

// HandlePaymentCompleted confirms the pending booking carrying the
// given reference and marks its room unavailable. An unknown reference
// or a booking that already left the pending state is a no-op, not an
// error: the webhook may be delivered more than once.
func (e *Engine) HandlePaymentCompleted(ref string) error {
	b, err := e.Bookings.ByReference(ref)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}

	mu := e.locks.forRoom(b.RoomID)
	mu.Lock()
	defer mu.Unlock()

	b, err = e.Bookings.ByReference(ref)
	if err != nil || b == nil {
		return err
	}
	if b.Status != models.BookingStatusPending {
		return nil
	}

	b.Status = models.BookingStatusConfirmed
	if err := e.Bookings.Save(b); err != nil {
		return err
	}
	return e.Rooms.SetAvailability(b.RoomID, false)
}

// HandlePaymentCancelled cancels the pending booking carrying the given
// reference. The room's availability flag is left as-is; only an
// explicit cancellation of a confirmed booking restores it.
func (e *Engine) HandlePaymentCancelled(ref string) error {
	b, err := e.Bookings.ByReference(ref)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}

	mu := e.locks.forRoom(b.RoomID)
	mu.Lock()
	defer mu.Unlock()

	b, err = e.Bookings.ByReference(ref)
	if err != nil || b == nil {
		return err
	}
	if b.Status != models.BookingStatusPending {
		return nil
	}

	b.Status = models.BookingStatusCancelled
	return e.Bookings.Save(b)
}
