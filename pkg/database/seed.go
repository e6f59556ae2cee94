package database

import (
	"fmt"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminPassword string
	KasirPassword string
}

type tableGroup struct {
	prefix   string
	area     models.TableArea
	count    int
	capacity int
}

var tableLayout = []tableGroup{
	{prefix: "Regular", area: models.AreaRegular, count: 10, capacity: 4},
	{prefix: "Hotpot", area: models.AreaHotpot, count: 5, capacity: 10},
	{prefix: "VIP", area: models.AreaVIP, count: 5, capacity: 6},
}

// Seed fills the table registry and the staff accounts when they are empty.
// Running it twice is a no-op.
func Seed(db *gorm.DB, opts SeedOptions) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedTables(tx); err != nil {
			return err
		}
		return seedUsers(tx, opts)
	})
}

func seedTables(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Table{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tables: %w", err)
	}
	if count > 0 {
		return nil
	}

	var tables []models.Table
	for _, g := range tableLayout {
		for i := 1; i <= g.count; i++ {
			tables = append(tables, models.Table{
				Name:     fmt.Sprintf("%s %d", g.prefix, i),
				Area:     g.area,
				Capacity: g.capacity,
			})
		}
	}
	if err := tx.Create(&tables).Error; err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}
	return nil
}

func seedUsers(tx *gorm.DB, opts SeedOptions) error {
	var count int64
	if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	accounts := []struct {
		username string
		password string
		role     models.UserRole
	}{
		{"admin", opts.AdminPassword, models.RoleAdmin},
		{"kasir", opts.KasirPassword, models.RoleKasir},
	}

	users := make([]models.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", a.username, err)
		}
		users = append(users, models.User{Username: a.username, PasswordHash: string(hash), Role: a.role})
	}
	if err := tx.Create(&users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	return nil
}
