package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Eursukkul/restaurant-booking/internal/models"
)

type CreateMenuItemRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Price       *float64            `json:"price" validate:"required,gte=0"`
	Category    models.MenuCategory `json:"category" validate:"required,oneof=appetizer main_course dessert beverage"`
}

// UpdateMenuItemRequest is a merge patch: absent fields are left untouched.
type UpdateMenuItemRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *float64             `json:"price" validate:"omitempty,gte=0"`
	Category    *models.MenuCategory `json:"category" validate:"omitempty,oneof=appetizer main_course dessert beverage"`
	IsAvailable *FlexBool            `json:"is_available"`
}

type OrderItemRequest struct {
	ID       uint     `json:"id" validate:"required"`
	Quantity int      `json:"quantity" validate:"required,gt=0"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
}

type CreateBookingRequest struct {
	CustomerName  string             `json:"customerName" validate:"required"`
	CustomerPhone string             `json:"customerPhone" validate:"required"`
	BookingTime   string             `json:"bookingTime" validate:"required"`
	GuestCount    int                `json:"guestCount" validate:"required,gt=0"`
	TableID       uint               `json:"tableId" validate:"required"`
	TotalPrice    *float64           `json:"totalPrice" validate:"required,gte=0"`
	OrderItems    []OrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
}

// FlexBool decodes JSON booleans as well as the 0/1 integers older clients
// send for flags.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(bytes.TrimSpace(data), `"`)) {
	case "true", "1":
		*b = true
	case "false", "0":
		*b = false
	default:
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		return fmt.Errorf("cannot read %s as a boolean", data)
	}
	return nil
}
