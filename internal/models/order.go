package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is the ledger record of an order that reached the operator
type Order struct {
	gorm.Model
	OrderID       string     `json:"order_id" gorm:"uniqueIndex;not null"`
	CustomerID    string     `json:"customer_id" gorm:"index;not null"`
	Lines         []CartLine `json:"lines" gorm:"serializer:json"`
	Subtotal      int64      `json:"subtotal"`
	DeliveryFee   int64      `json:"delivery_fee"`
	Total         int64      `json:"total"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	PaymentMethod string     `json:"payment_method"`
	PaymentLink   string     `json:"payment_link,omitempty"`
	Status        string     `json:"status"` // awaiting_payment, accepted, paid
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Order status constants
const (
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusAccepted        = "accepted"
	OrderStatusPaid            = "paid"
)
