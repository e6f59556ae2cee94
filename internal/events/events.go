// Package events defines the domain events published to the message broker.
package events

import (
	"context"
	"time"
)

const (
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	MenuCreated      = "menu.created"
	MenuUpdated      = "menu.updated"
	MenuDeleted      = "menu.deleted"
)

// Publisher delivers a JSON-encodable payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type BookingEvent struct {
	BookingID    uint      `json:"booking_id"`
	TableID      uint      `json:"table_id,omitempty"`
	CustomerName string    `json:"customer_name"`
	BookingTime  time.Time `json:"booking_time"`
	GuestCount   int       `json:"guest_count"`
	TotalPrice   float64   `json:"total_price"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type MenuEvent struct {
	MenuItemID uint      `json:"menu_item_id"`
	Fields     []string  `json:"fields,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
