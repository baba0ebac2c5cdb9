package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Status only ever moves forward: confirmed -> paid -> delivered.
var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusConfirmed: OrderStatusPaid,
	OrderStatusPaid:      OrderStatusDelivered,
}

func (s OrderStatus) CanAdvanceTo(to OrderStatus) bool {
	return nextOrderStatus[s] == to
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentDebitCard      PaymentMethod = "debit_card"
	PaymentUPI            PaymentMethod = "upi"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentCreditCard,
		PaymentDebitCard,
		PaymentUPI,
		PaymentCashOnDelivery,
	}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentCashOnDelivery:
		return true
	}
	return false
}

// Order is an immutable snapshot taken from the cart at checkout. Total and
// line prices are frozen at creation and never follow later catalog changes.
type Order struct {
	BaseNoDelete
	OrderID               string         `db:"order_id"` // public identifier
	UserID                uuid.UUID      `db:"user_id"`
	AddressID             uuid.UUID      `db:"address_id"`
	TotalAmount           float64        `db:"total_amount"`
	PaymentMethod         *PaymentMethod `db:"payment_method"` // nil until payment
	Status                OrderStatus    `db:"status"`
	PreferredDeliveryTime time.Time      `db:"preferred_delivery_time"`
	DeliveryNotifiedAt    *time.Time     `db:"delivery_notified_at"`
}

type OrderItem struct {
	BaseSimple
	OrderID     uuid.UUID `db:"order_id"`
	ProductID   uuid.UUID `db:"product_id"` // no FK: outlives the product row
	ProductName string    `db:"product_name"`
	Price       float64   `db:"price"` // frozen copy of the product price at purchase
	Quantity    int       `db:"quantity"`
}
