package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type OrderType string

const (
	OrderDineIn  OrderType = "dine_in"
	OrderTakeout OrderType = "takeout"
)

// SaleStatus is the lifecycle state of a recorded sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleVoided    SaleStatus = "voided"
)

// NotificationStatus tracks delivery of the order to downstream systems.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationSkipped NotificationStatus = "skipped"
)

// Sale is a checked-out order.
type Sale struct {
	ID            string
	OrderNumber   string
	EmployeeID    string
	EmployeeName  string
	Lines         []CartLine
	ItemCount     int
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	Tip           decimal.Decimal
	Total         decimal.Decimal
	Currency      string
	PaymentMethod PaymentMethod
	OrderType     OrderType
	TableNumber   int
	CustomerName  string
	Status        SaleStatus
	Notification  NotificationStatus
	CreatedAt     time.Time
	VoidedAt      time.Time
}

// Valid reports whether p is a supported payment method.
func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard
}

// Valid reports whether t is a supported order type.
func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeout
}
