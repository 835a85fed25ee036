package booking

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roomhaven/roomhaven-backend/internal/models"
)

// fixedNow keeps every past-date check deterministic.
var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type memRoomStore struct {
	mu    sync.Mutex
	rooms map[uint]*models.Room
}

func newMemRoomStore() *memRoomStore {
	return &memRoomStore{rooms: make(map[uint]*models.Room)}
}

func (s *memRoomStore) add(r models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := r
	s.rooms[r.ID] = &copied
}

func (s *memRoomStore) ListAvailable(roomType string, minOccupancy int) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Room
	for _, r := range s.rooms {
		if !r.IsAvailable {
			continue
		}
		if roomType != "" && string(r.Type) != roomType {
			continue
		}
		if minOccupancy > 0 && r.MaxOccupancy < minOccupancy {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *memRoomStore) GetAvailable(id uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok || !r.IsAvailable {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (s *memRoomStore) Get(id uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (s *memRoomStore) SetAvailability(id uint, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return fmt.Errorf("room %d not found", id)
	}
	r.IsAvailable = available
	return nil
}

type memBookingStore struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]*models.Booking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[uint]*models.Booking)}
}

func (s *memBookingStore) ConfirmedForRoom(roomID uint) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status == models.BookingStatusConfirmed {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) Create(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *memBookingStore) Save(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return fmt.Errorf("booking %d not found", b.ID)
	}
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *memBookingStore) ByReference(ref string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingReference == ref {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memBookingStore) List(f BookingFilter) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if f.RoomID != 0 && b.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.CheckInFrom != nil && b.CheckInDate.Before(*f.CheckInFrom) {
			continue
		}
		if f.CheckOutUntil != nil && b.CheckOutDate.After(*f.CheckOutUntil) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

type fakeGateway struct {
	fail  bool
	calls int32
}

func (g *fakeGateway) CreateCheckoutSession(amount float64, currency, ref string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.fail {
		return "", fmt.Errorf("gateway unavailable")
	}
	return "https://checkout.test/" + ref, nil
}

func newTestEngine(gateway PaymentGateway) (*Engine, *memRoomStore, *memBookingStore) {
	rooms := newMemRoomStore()
	bookings := newMemBookingStore()
	var refCounter uint64
	e := NewEngine(rooms, bookings, gateway, func() string {
		return fmt.Sprintf("ref-%d", atomic.AddUint64(&refCounter, 1))
	})
	e.Now = func() time.Time { return fixedNow }
	return e, rooms, bookings
}

func addRoom(rooms *memRoomStore, id uint, number string, roomType models.RoomType, price float64, occupancy int, available bool) {
	room := models.Room{
		RoomNumber:    number,
		Type:          roomType,
		PricePerNight: price,
		IsAvailable:   available,
		MaxOccupancy:  occupancy,
	}
	room.ID = id
	rooms.add(room)
}

func mustReserve(t *testing.T, e *Engine, roomID uint, in, out time.Time) *models.Booking {
	t.Helper()
	b, _, err := e.Reserve(roomID, in, out)
	if err != nil {
		t.Fatalf("Reserve(%d, %s, %s): %v", roomID, in.Format("2006-01-02"), out.Format("2006-01-02"), err)
	}
	return b
}

// confirm pushes a booking through the payment-completed transition.
func confirm(t *testing.T, e *Engine, ref string) {
	t.Helper()
	if err := e.HandlePaymentCompleted(ref); err != nil {
		t.Fatalf("HandlePaymentCompleted(%s): %v", ref, err)
	}
}

func TestReserveComputesPriceAndPendingStatus(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))

	if b.Status != models.BookingStatusPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.TotalPrice != 300 {
		t.Errorf("total price = %v, want 300 (3 nights at 100)", b.TotalPrice)
	}
	if b.Nights() != 3 {
		t.Errorf("nights = %d, want 3", b.Nights())
	}
	if b.BookingReference == "" {
		t.Error("booking reference is empty")
	}

	// Reserving must not flip the room's availability flag.
	room, _ := rooms.Get(1)
	if !room.IsAvailable {
		t.Error("room availability flag flipped by a pending reservation")
	}
}

func TestReserveDateValidation(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	cases := []struct {
		name     string
		in, out  time.Time
	}{
		{"check-in in the past", date(2025, 4, 20), date(2025, 6, 4)},
		{"check-out equals check-in", date(2025, 6, 1), date(2025, 6, 1)},
		{"check-out before check-in", date(2025, 6, 4), date(2025, 6, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := e.Reserve(1, tc.in, tc.out)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestSameDayCheckInWithNonUTCClock(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	// Local clock just past midnight in UTC+14; in UTC it is still the
	// previous day, so a check-in on that UTC date is valid.
	e.Now = func() time.Time {
		return time.Date(2025, 5, 2, 1, 0, 0, 0, time.FixedZone("UTC+14", 14*3600))
	}

	if _, _, err := e.Reserve(1, date(2025, 5, 1), date(2025, 5, 3)); err != nil {
		t.Fatalf("Reserve on the current UTC date: %v", err)
	}
}

func TestReserveUnknownOrInactiveRoom(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 2, "R202", models.RoomTypeDouble, 150, 2, false)

	var nferr *NotFoundError

	_, _, err := e.Reserve(99, date(2025, 6, 1), date(2025, 6, 4))
	if !errors.As(err, &nferr) {
		t.Fatalf("unknown room: err = %v, want NotFoundError", err)
	}

	_, _, err = e.Reserve(2, date(2025, 6, 1), date(2025, 6, 4))
	if !errors.As(err, &nferr) {
		t.Fatalf("inactive room: err = %v, want NotFoundError", err)
	}
}

func TestReserveConflictAgainstConfirmedBooking(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	// Confirmed stay June 1 - June 5.
	held := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))
	confirm(t, e, held.BookingReference)
	// Confirmation marks the room unavailable; re-open it so the flag
	// does not mask the overlap check being exercised.
	if err := rooms.SetAvailability(1, true); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		in, out  time.Time
		conflict bool
	}{
		{"overlapping tail", date(2025, 6, 3), date(2025, 6, 7), true},
		{"overlapping head", date(2025, 5, 28), date(2025, 6, 2), true},
		{"identical range", date(2025, 6, 1), date(2025, 6, 5), true},
		{"contains existing", date(2025, 5, 30), date(2025, 6, 10), true},
		{"contained by existing", date(2025, 6, 2), date(2025, 6, 4), true},
		// Endpoints are inclusive: back-to-back stays conflict.
		{"back-to-back after", date(2025, 6, 5), date(2025, 6, 8), true},
		{"back-to-back before", date(2025, 5, 28), date(2025, 6, 1), true},
		{"clearly after", date(2025, 6, 6), date(2025, 6, 9), false},
		{"clearly before", date(2025, 5, 25), date(2025, 5, 31), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := e.Reserve(1, tc.in, tc.out)
			var cerr *ConflictError
			if tc.conflict {
				if !errors.As(err, &cerr) {
					t.Fatalf("err = %v, want ConflictError", err)
				}
			} else if err != nil {
				t.Fatalf("err = %v, want success", err)
			}
		})
	}
}

func TestPendingBookingsDoNotBlockReservations(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	first := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))
	second := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))

	if first.BookingReference == second.BookingReference {
		t.Error("two reservations share a booking reference")
	}
}

func TestAvailableRoomsFilters(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 1, true)
	addRoom(rooms, 2, "R201", models.RoomTypeDouble, 150, 2, true)
	addRoom(rooms, 3, "S301", models.RoomTypeSuite, 400, 4, true)
	addRoom(rooms, 4, "S302", models.RoomTypeSuite, 400, 4, false)

	got, err := e.AvailableRooms(RoomFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("unfiltered: %d rooms, want 3 (inactive room excluded)", len(got))
	}

	got, err = e.AvailableRooms(RoomFilter{RoomType: "suite"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RoomNumber != "S301" {
		t.Errorf("type filter: got %v, want just S301", got)
	}

	got, err = e.AvailableRooms(RoomFilter{MinOccupancy: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("occupancy filter: %d rooms, want 2", len(got))
	}
}

func TestAvailableRoomsExcludesConflictingDates(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 1, true)
	addRoom(rooms, 2, "R102", models.RoomTypeSingle, 100, 1, true)

	held := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))
	confirm(t, e, held.BookingReference)
	if err := rooms.SetAvailability(1, true); err != nil {
		t.Fatal(err)
	}

	in, out := date(2025, 6, 3), date(2025, 6, 7)
	got, err := e.AvailableRooms(RoomFilter{CheckIn: &in, CheckOut: &out})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RoomNumber != "R102" {
		t.Errorf("got %v, want just R102", got)
	}

	// Invalid ranges fail up front.
	badIn, badOut := date(2025, 6, 7), date(2025, 6, 3)
	_, err = e.AvailableRooms(RoomFilter{CheckIn: &badIn, CheckOut: &badOut})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAvailableRoomIgnoresDates(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 1, true)

	// A confirmed booking does not hide the room from the single-room
	// lookup; only the availability flag does.
	held := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))
	confirm(t, e, held.BookingReference)
	if err := rooms.SetAvailability(1, true); err != nil {
		t.Fatal(err)
	}

	if _, err := e.AvailableRoom(1); err != nil {
		t.Fatalf("AvailableRoom: %v", err)
	}

	if err := rooms.SetAvailability(1, false); err != nil {
		t.Fatal(err)
	}
	_, err := e.AvailableRoom(1)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestUpdateBookingRecomputesPriceAtCurrentRate(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	confirm(t, e, b.BookingReference)

	// The nightly rate changed since the booking was made.
	room := models.Room{RoomNumber: "R101", Type: models.RoomTypeSingle, PricePerNight: 120, IsAvailable: false, MaxOccupancy: 2}
	room.ID = 1
	rooms.add(room)

	updated, err := e.UpdateBooking(b.BookingReference, date(2025, 7, 1), date(2025, 7, 6))
	if err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	if updated.TotalPrice != 600 {
		t.Errorf("total price = %v, want 600 (5 nights at the new 120 rate)", updated.TotalPrice)
	}
	if !updated.CheckInDate.Equal(date(2025, 7, 1)) || !updated.CheckOutDate.Equal(date(2025, 7, 6)) {
		t.Errorf("dates not updated: %v - %v", updated.CheckInDate, updated.CheckOutDate)
	}
}

func TestUpdateBookingExcludesItselfFromOverlap(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))
	confirm(t, e, b.BookingReference)

	// Shifting within its own range must not self-conflict.
	if _, err := e.UpdateBooking(b.BookingReference, date(2025, 6, 2), date(2025, 6, 5)); err != nil {
		t.Fatalf("UpdateBooking within own range: %v", err)
	}
}

func TestUpdateBookingConflictsWithOtherConfirmed(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b1 := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 5))
	confirm(t, e, b1.BookingReference)
	if err := rooms.SetAvailability(1, true); err != nil {
		t.Fatal(err)
	}
	b2 := mustReserve(t, e, 1, date(2025, 6, 10), date(2025, 6, 12))
	confirm(t, e, b2.BookingReference)

	_, err := e.UpdateBooking(b2.BookingReference, date(2025, 6, 3), date(2025, 6, 6))
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestUpdateBookingStateRules(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	var serr *StateError
	var nferr *NotFoundError

	// Unknown reference.
	_, err := e.UpdateBooking("missing", date(2025, 6, 1), date(2025, 6, 4))
	if !errors.As(err, &nferr) {
		t.Fatalf("unknown ref: err = %v, want NotFoundError", err)
	}

	// Pending bookings cannot be updated.
	pending := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	_, err = e.UpdateBooking(pending.BookingReference, date(2025, 6, 10), date(2025, 6, 12))
	if !errors.As(err, &serr) {
		t.Fatalf("pending: err = %v, want StateError", err)
	}

	// Confirmed booking whose stay already started cannot be updated.
	past := mustReserve(t, e, 1, date(2025, 5, 2), date(2025, 5, 6))
	confirm(t, e, past.BookingReference)
	e.Now = func() time.Time { return time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC) }
	_, err = e.UpdateBooking(past.BookingReference, date(2025, 5, 20), date(2025, 5, 22))
	if !errors.As(err, &serr) {
		t.Fatalf("past: err = %v, want StateError", err)
	}
}

func TestCancelConfirmedFutureBooking(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	confirm(t, e, b.BookingReference)

	room, _ := rooms.Get(1)
	if room.IsAvailable {
		t.Fatal("room should be unavailable after confirmation")
	}

	cancelled, err := e.CancelBooking(b.BookingReference)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	room, _ = rooms.Get(1)
	if !room.IsAvailable {
		t.Error("room availability flag not restored by cancellation")
	}
}

func TestCancelStateRules(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	var serr *StateError

	// Pending bookings cannot be cancelled through this path.
	pending := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	if _, err := e.CancelBooking(pending.BookingReference); !errors.As(err, &serr) {
		t.Fatalf("pending: err = %v, want StateError", err)
	}

	// Cancelling twice fails the second time and changes nothing.
	b := mustReserve(t, e, 1, date(2025, 7, 1), date(2025, 7, 4))
	confirm(t, e, b.BookingReference)
	if _, err := e.CancelBooking(b.BookingReference); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := e.CancelBooking(b.BookingReference); !errors.As(err, &serr) {
		t.Fatalf("second cancel: err = %v, want StateError", err)
	}
	got, err := e.BookingByReference(b.BookingReference)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.BookingStatusCancelled {
		t.Errorf("status = %s after failed re-cancel, want cancelled", got.Status)
	}

	// Confirmed booking with a past check-in cannot be cancelled.
	old := mustReserve(t, e, 1, date(2025, 5, 2), date(2025, 5, 6))
	confirm(t, e, old.BookingReference)
	e.Now = func() time.Time { return time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC) }
	if _, err := e.CancelBooking(old.BookingReference); !errors.As(err, &serr) {
		t.Fatalf("past check-in: err = %v, want StateError", err)
	}
}

func TestPaymentCompletedTransition(t *testing.T) {
	e, rooms, store := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	confirm(t, e, b.BookingReference)

	got, _ := store.ByReference(b.BookingReference)
	if got.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	room, _ := rooms.Get(1)
	if room.IsAvailable {
		t.Error("room availability flag not cleared on payment completion")
	}

	// Unknown references are acknowledged without error.
	if err := e.HandlePaymentCompleted("unknown-ref"); err != nil {
		t.Errorf("unknown reference: %v, want nil", err)
	}

	// Redelivery of the same event is a no-op.
	if err := e.HandlePaymentCompleted(b.BookingReference); err != nil {
		t.Errorf("redelivered event: %v, want nil", err)
	}
}

func TestPaymentCancelledTransition(t *testing.T) {
	e, rooms, store := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	if err := e.HandlePaymentCancelled(b.BookingReference); err != nil {
		t.Fatalf("HandlePaymentCancelled: %v", err)
	}

	got, _ := store.ByReference(b.BookingReference)
	if got.Status != models.BookingStatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}

	// This path leaves the availability flag alone.
	room, _ := rooms.Get(1)
	if !room.IsAvailable {
		t.Error("payment-cancelled path must not touch the availability flag")
	}

	// A confirmed booking is not clawed back by a late cancel event.
	b2 := mustReserve(t, e, 1, date(2025, 7, 1), date(2025, 7, 4))
	confirm(t, e, b2.BookingReference)
	if err := e.HandlePaymentCancelled(b2.BookingReference); err != nil {
		t.Fatal(err)
	}
	got, _ = store.ByReference(b2.BookingReference)
	if got.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed to survive a late cancel event", got.Status)
	}
}

func TestGatewayFailureKeepsPendingBooking(t *testing.T) {
	gw := &fakeGateway{fail: true}
	e, rooms, store := newTestEngine(gw)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b, url, err := e.Reserve(1, date(2025, 6, 1), date(2025, 6, 4))
	if err == nil {
		t.Fatal("want error when the gateway is down")
	}
	if b == nil {
		t.Fatal("booking must be returned alongside the gateway error")
	}
	if url != "" {
		t.Errorf("url = %q, want empty", url)
	}

	// The booking was persisted and stays pending.
	got, _ := store.ByReference(b.BookingReference)
	if got == nil || got.Status != models.BookingStatusPending {
		t.Errorf("persisted booking = %+v, want pending", got)
	}
}

func TestGatewaySuccessReturnsCheckoutURL(t *testing.T) {
	gw := &fakeGateway{}
	e, rooms, _ := newTestEngine(gw)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b, url, err := e.Reserve(1, date(2025, 6, 1), date(2025, 6, 4))
	if err != nil {
		t.Fatal(err)
	}
	if want := "https://checkout.test/" + b.BookingReference; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestConcurrentUpdatesSerializePerRoom(t *testing.T) {
	e, rooms, store := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)

	b1 := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 3))
	confirm(t, e, b1.BookingReference)
	if err := rooms.SetAvailability(1, true); err != nil {
		t.Fatal(err)
	}
	b2 := mustReserve(t, e, 1, date(2025, 6, 10), date(2025, 6, 12))
	confirm(t, e, b2.BookingReference)

	// Both try to move onto the same dates; the room lock must let
	// exactly one through.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, ref := range []string{b1.BookingReference, b2.BookingReference} {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			_, errs[i] = e.UpdateBooking(ref, date(2025, 6, 20), date(2025, 6, 22))
		}(i, ref)
	}
	wg.Wait()

	var conflicts int
	for _, err := range errs {
		if err == nil {
			continue
		}
		var cerr *ConflictError
		if !errors.As(err, &cerr) {
			t.Fatalf("unexpected error: %v", err)
		}
		conflicts++
	}
	if conflicts != 1 {
		t.Fatalf("conflicts = %d, want exactly 1", conflicts)
	}

	// Invariant: confirmed bookings on the room never overlap.
	confirmed, _ := store.ConfirmedForRoom(1)
	for i := range confirmed {
		for j := i + 1; j < len(confirmed); j++ {
			if rangesConflict(confirmed[i].CheckInDate, confirmed[i].CheckOutDate,
				confirmed[j].CheckInDate, confirmed[j].CheckOutDate) {
				t.Fatalf("overlapping confirmed bookings: %+v and %+v", confirmed[i], confirmed[j])
			}
		}
	}
}

func TestListBookingsFilters(t *testing.T) {
	e, rooms, _ := newTestEngine(nil)
	addRoom(rooms, 1, "R101", models.RoomTypeSingle, 100, 2, true)
	addRoom(rooms, 2, "R102", models.RoomTypeSingle, 100, 2, true)

	b1 := mustReserve(t, e, 1, date(2025, 6, 1), date(2025, 6, 4))
	mustReserve(t, e, 2, date(2025, 6, 1), date(2025, 6, 4))
	confirm(t, e, b1.BookingReference)

	got, err := e.ListBookings(BookingFilter{RoomID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("room filter: %d bookings, want 1", len(got))
	}

	got, err = e.ListBookings(BookingFilter{Status: models.BookingStatusConfirmed})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].BookingReference != b1.BookingReference {
		t.Errorf("status filter: got %v, want just %s", got, b1.BookingReference)
	}

	from := date(2025, 6, 2)
	got, err = e.ListBookings(BookingFilter{CheckInFrom: &from})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("lower bound filter: %d bookings, want 0", len(got))
	}
}

func TestOverlapPredicate(t *testing.T) {
	in := date(2025, 6, 3)
	out := date(2025, 6, 7)

	cases := []struct {
		name       string
		exIn, exOut time.Time
		want       bool
	}{
		{"disjoint before", date(2025, 5, 25), date(2025, 6, 1), false},
		{"disjoint after", date(2025, 6, 9), date(2025, 6, 12), false},
		{"existing check-in inside", date(2025, 6, 5), date(2025, 6, 12), true},
		{"existing check-out inside", date(2025, 5, 30), date(2025, 6, 4), true},
		{"existing contains request", date(2025, 6, 1), date(2025, 6, 10), true},
		{"request contains existing", date(2025, 6, 4), date(2025, 6, 6), true},
		{"shared endpoint at start", date(2025, 5, 30), date(2025, 6, 3), true},
		{"shared endpoint at end", date(2025, 6, 7), date(2025, 6, 10), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rangesConflict(in, out, tc.exIn, tc.exOut); got != tc.want {
				t.Errorf("rangesConflict = %v, want %v", got, tc.want)
			}
		})
	}
}
