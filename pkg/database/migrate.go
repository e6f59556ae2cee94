package database

import (
	"fmt"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the six relations of the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Table{},
		&models.User{},
		&models.MenuItem{},
		&models.Booking{},
		&models.BookingTable{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
