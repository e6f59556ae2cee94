package dto

import (
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/models"
)

type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ChangesResponse struct {
	Message string `json:"message"`
	Changes int64  `json:"changes"`
}

type AvailabilityResponse struct {
	Message   string                     `json:"message"`
	QueryTime string                     `json:"query_time"`
	Data      []models.TableAvailability `json:"data"`
}

type BookingCreatedResponse struct {
	Message   string `json:"message"`
	BookingID uint   `json:"bookingId"`
}

type OrderItemResponse struct {
	MenuItemID   uint    `json:"menu_item_id"`
	Quantity     int     `json:"quantity"`
	PricePerItem float64 `json:"price_per_item"`
}

type BookingResponse struct {
	ID             uint                 `json:"id"`
	CustomerName   string               `json:"customer_name"`
	CustomerPhone  string               `json:"customer_phone"`
	BookingTime    time.Time            `json:"booking_time"`
	NumberOfGuests int                  `json:"number_of_guests"`
	Status         models.BookingStatus `json:"status"`
	TotalPrice     float64              `json:"total_price"`
	TableIDs       []uint               `json:"table_ids"`
	OrderItems     []OrderItemResponse  `json:"order_items"`
	CreatedAt      time.Time            `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	tableIDs := make([]uint, len(b.Tables))
	for i, t := range b.Tables {
		tableIDs[i] = t.TableID
	}
	items := make([]OrderItemResponse, len(b.OrderItems))
	for i, oi := range b.OrderItems {
		items[i] = OrderItemResponse{
			MenuItemID:   oi.MenuItemID,
			Quantity:     oi.Quantity,
			PricePerItem: oi.PricePerItem,
		}
	}
	return BookingResponse{
		ID:             b.ID,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		BookingTime:    b.BookingTime,
		NumberOfGuests: b.NumberOfGuests,
		Status:         b.Status,
		TotalPrice:     b.TotalPrice,
		TableIDs:       tableIDs,
		OrderItems:     items,
		CreatedAt:      b.CreatedAt,
	}
}
