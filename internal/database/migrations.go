package database

import (
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.Room{},
		&models.Booking{},
		&models.APIClient{},
		&models.APIRequestLog{},
	)
	if err != nil {
		return err
	}

	// Enum and range constraints gorm tags cannot express
	if db.Migrator().HasTable(&models.Room{}) {
		db.Exec(`ALTER TABLE rooms DROP CONSTRAINT IF EXISTS rooms_type_check`)
		if err := db.Exec(`ALTER TABLE rooms ADD CONSTRAINT rooms_type_check CHECK (type IN ('single', 'double', 'suite', 'deluxe'))`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE rooms DROP CONSTRAINT IF EXISTS rooms_price_check`)
		if err := db.Exec(`ALTER TABLE rooms ADD CONSTRAINT rooms_price_check CHECK (price_per_night > 0)`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE rooms DROP CONSTRAINT IF EXISTS rooms_max_occupancy_check`)
		if err := db.Exec(`ALTER TABLE rooms ADD CONSTRAINT rooms_max_occupancy_check CHECK (max_occupancy >= 1)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'confirmed', 'cancelled'))`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_dates_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_dates_check CHECK (check_out_date > check_in_date)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('guest', 'admin'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
