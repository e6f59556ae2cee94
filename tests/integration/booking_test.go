//go:build integration

package integration

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/Eursukkul/restaurant-booking/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evening(hour int) time.Time {
	return time.Date(2026, 5, 2, hour, 0, 0, 0, time.UTC)
}

func services(t *testing.T) (service.BookingService, service.AvailabilityService, uint) {
	t.Helper()
	item := &models.MenuItem{Name: "Bebek Goreng", Price: 45000, Category: models.CategoryMainCourse, IsAvailable: true}
	require.NoError(t, testDB.Create(item).Error)

	bookingRepo := repository.NewBookingRepository(testDB)
	tableRepo := repository.NewTableRepository(testDB)
	return service.NewBookingService(bookingRepo, tableRepo, nil, logger.Discard()),
		service.NewAvailabilityService(tableRepo, bookingRepo),
		item.ID
}

func bookingFor(tableID, menuID uint, start time.Time, guest string) service.CreateBookingInput {
	total := 90000.0
	return service.CreateBookingInput{
		CustomerName:  guest,
		CustomerPhone: "0811000000",
		BookingTime:   start,
		GuestCount:    2,
		TableID:       tableID,
		TotalPrice:    &total,
		OrderItems:    []service.OrderLineInput{{MenuItemID: menuID, Quantity: 2, Price: 45000}},
	}
}

// 20 guests race for table 1 at 19:00 → exactly one confirmed booking
func TestConcurrentBookingSameSlot(t *testing.T) {
	cleanBookings()
	svc, _, menuID := services(t)

	const guests = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, conflicts := 0, 0
	var unexpected []error

	wg.Add(guests)
	for i := 0; i < guests; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(t.Context(), bookingFor(1, menuID, evening(19), "Guest"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, service.ErrSlotUnavailable):
				conflicts++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, guests-1, conflicts)

	var count int64
	testDB.Model(&models.Booking{}).Where("status = ?", models.StatusConfirmed).Count(&count)
	assert.Equal(t, int64(1), count)
}

// Overlapping starts on different tables do not contend
func TestConcurrentBookingDifferentTables(t *testing.T) {
	cleanBookings()
	svc, _, menuID := services(t)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	wg.Add(10)
	for table := uint(1); table <= 10; table++ {
		go func(id uint) {
			defer wg.Done()
			_, err := svc.CreateBooking(t.Context(), bookingFor(id, menuID, evening(19), "Guest"))
			errs <- err
		}(table)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestAvailabilityAfterBookingAndCancel(t *testing.T) {
	cleanBookings()
	svc, avail, menuID := services(t)

	id, err := svc.CreateBooking(t.Context(), bookingFor(2, menuID, evening(19), "Rina"))
	require.NoError(t, err)

	status := func(at time.Time) map[uint]bool {
		tables, err := avail.ComputeAvailability(t.Context(), at)
		require.NoError(t, err)
		require.Len(t, tables, 20)
		m := make(map[uint]bool)
		for _, tbl := range tables {
			m[tbl.ID] = tbl.IsAvailable
		}
		return m
	}

	assert.False(t, status(evening(18))[2])
	assert.True(t, status(evening(21))[2])
	assert.True(t, status(evening(17))[2])

	_, err = svc.CancelBooking(t.Context(), id)
	require.NoError(t, err)
	assert.True(t, status(evening(18))[2])
}

func TestBookingRollbackOnBadMenuItem(t *testing.T) {
	cleanBookings()
	svc, _, menuID := services(t)

	in := bookingFor(3, menuID, evening(12), "Budi")
	in.OrderItems = append(in.OrderItems, service.OrderLineInput{MenuItemID: 987654, Quantity: 1, Price: 1})

	_, err := svc.CreateBooking(t.Context(), in)
	require.Error(t, err)

	var bookings, lines, assignments int64
	testDB.Model(&models.Booking{}).Count(&bookings)
	testDB.Model(&models.OrderItem{}).Count(&lines)
	testDB.Model(&models.BookingTable{}).Count(&assignments)
	assert.Zero(t, bookings)
	assert.Zero(t, lines)
	assert.Zero(t, assignments)
}
