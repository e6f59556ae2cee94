package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/events"
	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/Eursukkul/restaurant-booking/internal/testdb"
	"github.com/Eursukkul/restaurant-booking/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Recording publisher ---

type published struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{key: key, payload: payload})
	return p.err
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		keys[i] = m.key
	}
	return keys
}

// --- Helpers ---

func dinner(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func price(v float64) *float64 { return &v }

type bookingFixture struct {
	db        *gorm.DB
	svc       BookingService
	avail     AvailabilityService
	publisher *fakePublisher
	menuIDs   []uint
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := testdb.New(t)

	items := []models.MenuItem{
		{Name: "Sate Ayam", Price: 30000, Category: models.CategoryAppetizer, IsAvailable: true},
		{Name: "Rendang", Price: 55000, Category: models.CategoryMainCourse, IsAvailable: true},
	}
	require.NoError(t, db.Create(&items).Error)

	pub := &fakePublisher{}
	bookingRepo := repository.NewBookingRepository(db)
	tableRepo := repository.NewTableRepository(db)
	return &bookingFixture{
		db:        db,
		svc:       NewBookingService(bookingRepo, tableRepo, pub, logger.Discard()),
		avail:     NewAvailabilityService(tableRepo, bookingRepo),
		publisher: pub,
		menuIDs:   []uint{items[0].ID, items[1].ID},
	}
}

func (f *bookingFixture) input(tableID uint, start time.Time) CreateBookingInput {
	return CreateBookingInput{
		CustomerName:  "Dewi",
		CustomerPhone: "081234567890",
		BookingTime:   start,
		GuestCount:    4,
		TableID:       tableID,
		TotalPrice:    price(170000),
		OrderItems: []OrderLineInput{
			{MenuItemID: f.menuIDs[0], Quantity: 2, Price: 30000},
			{MenuItemID: f.menuIDs[1], Quantity: 2, Price: 55000},
		},
	}
}

func (f *bookingFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

// --- Tests ---

func TestCreateBooking_WritesBookingAssignmentAndLines(t *testing.T) {
	f := newBookingFixture(t)

	id, err := f.svc.CreateBooking(context.Background(), f.input(3, dinner(18, 0)))
	require.NoError(t, err)
	assert.NotZero(t, id)

	assert.Equal(t, int64(1), f.count(t, &models.Booking{}))
	assert.Equal(t, int64(1), f.count(t, &models.BookingTable{}))
	assert.Equal(t, int64(2), f.count(t, &models.OrderItem{}))

	booking, err := f.svc.GetBooking(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.Equal(t, 4, booking.NumberOfGuests)
	assert.True(t, booking.BookingTime.Equal(dinner(18, 0)))
	require.Len(t, booking.Tables, 1)
	assert.Equal(t, uint(3), booking.Tables[0].TableID)
	require.Len(t, booking.OrderItems, 2)
	assert.Equal(t, 30000.0, booking.OrderItems[0].PricePerItem)

	assert.Equal(t, []string{events.BookingConfirmed}, f.publisher.keys())
}

func TestCreateBooking_PriceIsCopiedNotReferenced(t *testing.T) {
	f := newBookingFixture(t)

	id, err := f.svc.CreateBooking(context.Background(), f.input(1, dinner(12, 0)))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.MenuItem{}).Where("id = ?", f.menuIDs[0]).Update("price", 99999).Error)

	booking, err := f.svc.GetBooking(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 30000.0, booking.OrderItems[0].PricePerItem)
}

func TestCreateBooking_ValidationWritesNothing(t *testing.T) {
	f := newBookingFixture(t)

	cases := map[string]func(in *CreateBookingInput){
		"empty order items":   func(in *CreateBookingInput) { in.OrderItems = nil },
		"missing name":        func(in *CreateBookingInput) { in.CustomerName = "  " },
		"missing phone":       func(in *CreateBookingInput) { in.CustomerPhone = "" },
		"missing time":        func(in *CreateBookingInput) { in.BookingTime = time.Time{} },
		"zero guests":         func(in *CreateBookingInput) { in.GuestCount = 0 },
		"missing table":       func(in *CreateBookingInput) { in.TableID = 0 },
		"missing total":       func(in *CreateBookingInput) { in.TotalPrice = nil },
		"negative total":      func(in *CreateBookingInput) { in.TotalPrice = price(-1) },
		"zero quantity line":  func(in *CreateBookingInput) { in.OrderItems[0].Quantity = 0 },
		"line without a menu": func(in *CreateBookingInput) { in.OrderItems[1].MenuItemID = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := f.input(2, dinner(18, 0))
			mutate(&in)

			id, err := f.svc.CreateBooking(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, id)
		})
	}

	assert.Zero(t, f.count(t, &models.Booking{}))
	assert.Zero(t, f.count(t, &models.BookingTable{}))
	assert.Zero(t, f.count(t, &models.OrderItem{}))
	assert.Empty(t, f.publisher.keys())
}

func TestCreateBooking_UnknownTable(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.input(999, dinner(18, 0)))
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.count(t, &models.Booking{}))
}

func TestCreateBooking_RejectsOverlapOnSameTable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, f.input(5, dinner(18, 0)))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, f.input(5, dinner(19, 0)))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.CreateBooking(ctx, f.input(5, dinner(16, 30)))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// adjacent windows do not overlap
	_, err = f.svc.CreateBooking(ctx, f.input(5, dinner(20, 0)))
	assert.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, f.input(5, dinner(16, 0)))
	assert.NoError(t, err)

	// other tables are unaffected
	_, err = f.svc.CreateBooking(ctx, f.input(6, dinner(19, 0)))
	assert.NoError(t, err)

	assert.Equal(t, int64(4), f.count(t, &models.Booking{}))
	assert.Equal(t, int64(8), f.count(t, &models.OrderItem{}))
}

func TestCreateBooking_RollsBackWhenALineFails(t *testing.T) {
	f := newBookingFixture(t)

	in := f.input(4, dinner(18, 0))
	in.OrderItems = append(in.OrderItems, OrderLineInput{MenuItemID: 4242, Quantity: 1, Price: 1000})

	_, err := f.svc.CreateBooking(context.Background(), in)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)

	assert.Zero(t, f.count(t, &models.Booking{}))
	assert.Zero(t, f.count(t, &models.BookingTable{}))
	assert.Zero(t, f.count(t, &models.OrderItem{}))
	assert.Empty(t, f.publisher.keys())
}

func TestCreateBooking_ConcurrentRequestsForOneSlot(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, conflicts := 0, 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateBooking(context.Background(), f.input(9, dinner(19, 0)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "only one booking may win the slot")
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, int64(1), f.count(t, &models.Booking{}))
}

func TestCancelBooking_FreesTable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateBooking(ctx, f.input(2, dinner(18, 0)))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelBooking(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.Len(t, cancelled.Tables, 1)
	assert.Equal(t, uint(2), cancelled.Tables[0].TableID)
	assert.Len(t, cancelled.OrderItems, 2)

	f.publisher.mu.Lock()
	evt := f.publisher.msgs[1]
	f.publisher.mu.Unlock()
	require.Equal(t, events.BookingCancelled, evt.key)
	payload, ok := evt.payload.(events.BookingEvent)
	require.True(t, ok)
	assert.Equal(t, uint(2), payload.TableID)
	assert.Equal(t, id, payload.BookingID)
	assert.Equal(t, string(models.StatusCancelled), payload.Status)

	_, err = f.svc.CancelBooking(ctx, id)
	assert.ErrorIs(t, err, ErrBookingNotActive)

	tables, err := f.avail.ComputeAvailability(ctx, dinner(18, 0))
	require.NoError(t, err)
	for _, tbl := range tables {
		assert.True(t, tbl.IsAvailable, tbl.Name)
	}

	_, err = f.svc.CreateBooking(ctx, f.input(2, dinner(18, 0)))
	assert.NoError(t, err)

	assert.Equal(t, []string{events.BookingConfirmed, events.BookingCancelled, events.BookingConfirmed}, f.publisher.keys())
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CancelBooking(context.Background(), 77)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.GetBooking(context.Background(), 77)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCreateBooking_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.publisher.err = errors.New("broker down")

	id, err := f.svc.CreateBooking(context.Background(), f.input(1, dinner(18, 0)))
	assert.NoError(t, err)
	assert.NotZero(t, id)
}

func TestTranslateTxError(t *testing.T) {
	err := translateTxError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.ErrorIs(t, err, ErrConflict)

	err = translateTxError(ErrTableNotFound)
	assert.Equal(t, ErrTableNotFound, err)

	err = translateTxError(errors.New("disk full"))
	assert.NotErrorIs(t, err, ErrConflict)
	assert.ErrorContains(t, err, "disk full")
}
