package models

import "time"

type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
)

type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	CustomerName   string        `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone  string        `gorm:"type:varchar(50);not null" json:"customer_phone"`
	BookingTime    time.Time     `gorm:"not null;index:idx_bookings_status_time,priority:2" json:"booking_time"`
	NumberOfGuests int           `gorm:"not null" json:"number_of_guests"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'confirmed';index:idx_bookings_status_time,priority:1" json:"status"`
	TotalPrice     float64       `gorm:"not null" json:"total_price"`
	PaymentToken   *string       `gorm:"type:varchar(255)" json:"payment_token,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Tables     []BookingTable `gorm:"foreignKey:BookingID" json:"tables,omitempty"`
	OrderItems []OrderItem    `gorm:"foreignKey:BookingID" json:"order_items,omitempty"`
}

// BookingTable assigns a table to a booking. The schema allows several rows
// per booking; bookings are only ever created with one.
type BookingTable struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID uint   `gorm:"not null;index" json:"booking_id"`
	TableID   uint   `gorm:"not null;index" json:"table_id"`
	Table     *Table `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
}

// OrderItem is a line of a booking's order. PricePerItem is copied from the
// menu at order time.
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BookingID    uint      `gorm:"not null;index" json:"booking_id"`
	MenuItemID   uint      `gorm:"not null;index" json:"menu_item_id"`
	MenuItem     *MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item,omitempty"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	PricePerItem float64   `gorm:"not null" json:"price_per_item"`
}
