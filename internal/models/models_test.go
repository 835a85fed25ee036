package models

import (
	"testing"
	"time"
)

func TestValidRoomType(t *testing.T) {
	for _, valid := range []string{"single", "double", "suite", "deluxe"} {
		if !ValidRoomType(valid) {
			t.Errorf("ValidRoomType(%q) = false", valid)
		}
	}
	for _, invalid := range []string{"", "penthouse", "Single", "SUITE"} {
		if ValidRoomType(invalid) {
			t.Errorf("ValidRoomType(%q) = true", invalid)
		}
	}
}

func TestRoomNumberPattern(t *testing.T) {
	for _, ok := range []string{"R101", "S-301", "1", "PENTHOUSE1"} {
		if !RoomNumberPattern.MatchString(ok) {
			t.Errorf("%q rejected", ok)
		}
	}
	for _, bad := range []string{"", "r101", "ROOM 101", "VERYLONGROOM1"} {
		if RoomNumberPattern.MatchString(bad) {
			t.Errorf("%q accepted", bad)
		}
	}
}

func TestBookingNights(t *testing.T) {
	b := Booking{
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	}
	if got := b.Nights(); got != 3 {
		t.Errorf("Nights() = %d, want 3", got)
	}

	oneNight := Booking{
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	if got := oneNight.Nights(); got != 1 {
		t.Errorf("Nights() = %d, want 1", got)
	}
}

func TestOTPIsValid(t *testing.T) {
	fresh := OTP{Code: "123456", ExpiresAt: time.Now().Add(10 * time.Minute)}
	if !fresh.IsValid() {
		t.Error("fresh code reported invalid")
	}

	expired := OTP{Code: "123456", ExpiresAt: time.Now().Add(-time.Minute)}
	if expired.IsValid() {
		t.Error("expired code reported valid")
	}

	used := OTP{Code: "123456", ExpiresAt: time.Now().Add(10 * time.Minute), Used: true}
	if used.IsValid() {
		t.Error("used code reported valid")
	}
}

func TestUserPasswordHashing(t *testing.T) {
	u := User{Email: "guest@example.com", Password: "s3cret-password"}
	if err := u.HashPassword(); err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-password" {
		t.Fatal("password not hashed")
	}
	if err := u.CheckPassword("s3cret-password"); err != nil {
		t.Errorf("CheckPassword with the right password: %v", err)
	}
	if err := u.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}
