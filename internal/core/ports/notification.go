package ports

import (
	"context"
	"time"
)

const EventOrderCreated = "order.created"

// OrderNotificationLine is a line in the outgoing order payload.
type OrderNotificationLine struct {
	MenuItemID string   `json:"menu_item_id"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  string   `json:"unit_price"`
	Extras     []string `json:"extras,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	LineTotal  string   `json:"line_total"`
}

// OrderNotification is the payload delivered to the fulfillment webhook
// and published to the order exchange.
type OrderNotification struct {
	Event         string                  `json:"event"`
	SaleID        string                  `json:"sale_id"`
	OrderNumber   string                  `json:"order_number"`
	OrderType     string                  `json:"order_type"`
	TableNumber   int                     `json:"table_number,omitempty"`
	CustomerName  string                  `json:"customer_name,omitempty"`
	EmployeeName  string                  `json:"employee_name"`
	PaymentMethod string                  `json:"payment_method"`
	Lines         []OrderNotificationLine `json:"lines"`
	Subtotal      string                  `json:"subtotal"`
	Tax           string                  `json:"tax"`
	Tip           string                  `json:"tip"`
	Total         string                  `json:"total"`
	Currency      string                  `json:"currency"`
	CreatedAt     time.Time               `json:"created_at"`
}

// OrderNotifier delivers an order to one downstream system.
type OrderNotifier interface {
	Name() string
	Notify(ctx context.Context, n OrderNotification) error
}

// NotificationService delivers queued order notifications.
type NotificationService interface {
	Process(ctx context.Context, n OrderNotification) error
}

// OrderQueue accepts notifications for asynchronous delivery.
type OrderQueue interface {
	Enqueue(n OrderNotification)
}
