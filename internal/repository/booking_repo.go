package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	AssignTable(ctx context.Context, tx *gorm.DB, bookingID, tableID uint) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
	// FindOccupiedTableIDs returns the tables of confirmed bookings whose
	// booking_time lies strictly between after and before.
	FindOccupiedTableIDs(ctx context.Context, tx *gorm.DB, after, before time.Time) ([]uint, error)
	// CountOccupying is FindOccupiedTableIDs narrowed to one table.
	CountOccupying(ctx context.Context, tx *gorm.DB, tableID uint, after, before time.Time) (int64, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepository) AssignTable(ctx context.Context, tx *gorm.DB, bookingID, tableID uint) error {
	return tx.WithContext(ctx).Create(&models.BookingTable{BookingID: bookingID, TableID: tableID}).Error
}

func (r *bookingRepository) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Tables.Table").
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}

func (r *bookingRepository) occupying(ctx context.Context, tx *gorm.DB, after, before time.Time) *gorm.DB {
	return tx.WithContext(ctx).
		Table("bookings AS b").
		Joins("JOIN booking_tables AS bt ON bt.booking_id = b.id").
		Where("b.status = ? AND b.booking_time > ? AND b.booking_time < ?",
			models.StatusConfirmed, after.UTC(), before.UTC())
}

func (r *bookingRepository) FindOccupiedTableIDs(ctx context.Context, tx *gorm.DB, after, before time.Time) ([]uint, error) {
	var ids []uint
	err := r.occupying(ctx, tx, after, before).
		Distinct().
		Pluck("bt.table_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *bookingRepository) CountOccupying(ctx context.Context, tx *gorm.DB, tableID uint, after, before time.Time) (int64, error) {
	var count int64
	err := r.occupying(ctx, tx, after, before).
		Where("bt.table_id = ?", tableID).
		Count(&count).Error
	return count, err
}
