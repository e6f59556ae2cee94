package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/events"
	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderLineInput struct {
	MenuItemID uint
	Quantity   int
	Price      float64
}

type CreateBookingInput struct {
	CustomerName  string
	CustomerPhone string
	BookingTime   time.Time
	GuestCount    int
	TableID       uint
	TotalPrice    *float64
	OrderItems    []OrderLineInput
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (uint, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	tableRepo   repository.TableRepository
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewBookingService(bookingRepo repository.BookingRepository, tableRepo repository.TableRepository, publisher events.Publisher, log *logrus.Logger) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tableRepo:   tableRepo,
		publisher:   publisher,
		log:         log,
	}
}

func (in CreateBookingInput) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.CustomerPhone) == "" ||
		in.BookingTime.IsZero() ||
		in.GuestCount <= 0 ||
		in.TableID == 0 ||
		in.TotalPrice == nil ||
		len(in.OrderItems) == 0 {
		return validationErrorf("incomplete booking: every field and at least one order item is required")
	}
	if *in.TotalPrice < 0 {
		return validationErrorf("total price must not be negative")
	}
	for i, line := range in.OrderItems {
		if line.MenuItemID == 0 || line.Quantity <= 0 || line.Price < 0 {
			return validationErrorf("order item %d needs a menu item id, a positive quantity and a non-negative price", i)
		}
	}
	return nil
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (uint, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	start := in.BookingTime.UTC()
	var booking *models.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the table row so concurrent bookings for it serialize here
		if _, err := s.tableRepo.FindByIDForUpdate(ctx, tx, in.TableID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		// 2. Re-check the slot under the lock
		after, before := WindowAt(start).OverlappingStarts()
		taken, err := s.bookingRepo.CountOccupying(ctx, tx, in.TableID, after, before)
		if err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotUnavailable
		}

		// 3. Booking row
		booking = &models.Booking{
			CustomerName:   strings.TrimSpace(in.CustomerName),
			CustomerPhone:  strings.TrimSpace(in.CustomerPhone),
			BookingTime:    start,
			NumberOfGuests: in.GuestCount,
			Status:         models.StatusConfirmed,
			TotalPrice:     *in.TotalPrice,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		// 4. Table assignment
		if err := s.bookingRepo.AssignTable(ctx, tx, booking.ID, in.TableID); err != nil {
			return err
		}

		// 5. Order lines, price copied as submitted
		lines := make([]models.OrderItem, len(in.OrderItems))
		for i, l := range in.OrderItems {
			lines[i] = models.OrderItem{
				BookingID:    booking.ID,
				MenuItemID:   l.MenuItemID,
				Quantity:     l.Quantity,
				PricePerItem: l.Price,
			}
		}
		return s.bookingRepo.CreateOrderItems(ctx, tx, lines)
	})
	if err != nil {
		return 0, translateTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"table_id":   in.TableID,
		"start":      start.Format(time.RFC3339),
		"lines":      len(in.OrderItems),
	}).Info("booking confirmed")

	s.publish(ctx, events.BookingConfirmed, booking, in.TableID)
	return booking.ID, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return booking, nil
}

// CancelBooking moves a confirmed booking to cancelled, which frees its table.
func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.StatusConfirmed {
			return ErrBookingNotActive
		}

		return s.bookingRepo.UpdateStatus(ctx, tx, id, models.StatusCancelled)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	// reload with tables and order lines
	result, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	var tableID uint
	if len(result.Tables) > 0 {
		tableID = result.Tables[0].TableID
	}

	s.log.WithFields(logrus.Fields{"booking_id": id, "table_id": tableID}).Info("booking cancelled")
	s.publish(ctx, events.BookingCancelled, result, tableID)
	return result, nil
}

// translateTxError keeps domain errors and turns lock or serialization
// failures reported by Postgres into a slot conflict.
func translateTxError(err error) error {
	var de *domainError
	if errors.As(err, &de) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", ErrSlotUnavailable, pgErr.Message)
		}
	}
	return fmt.Errorf("booking transaction: %w", err)
}

func (s *bookingService) publish(ctx context.Context, key string, b *models.Booking, tableID uint) {
	if s.publisher == nil {
		return
	}
	evt := events.BookingEvent{
		BookingID:    b.ID,
		TableID:      tableID,
		CustomerName: b.CustomerName,
		BookingTime:  b.BookingTime,
		GuestCount:   b.NumberOfGuests,
		TotalPrice:   b.TotalPrice,
		Status:       string(b.Status),
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"routing_key": key, "booking_id": b.ID}).
			Warn("failed to publish booking event")
	}
}
