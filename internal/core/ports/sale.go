package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
)

// ListSalesFilter carries the query parameters for listing sales.
type ListSalesFilter struct {
	From       time.Time // optional: created_at >= From
	To         time.Time // optional: created_at < To
	EmployeeID string    // optional
	Status     string    // optional
	Page       int       // 1-based
	Limit      int
}

// SaleRepository persists checked-out orders.
type SaleRepository interface {
	Create(ctx context.Context, s *domain.Sale) error
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter ListSalesFilter) ([]*domain.Sale, int64, error)
	// ListBetween returns every sale created in [from, to).
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Sale, error)
	UpdateStatus(ctx context.Context, id string, status domain.SaleStatus, at time.Time) error
	UpdateNotification(ctx context.Context, id string, status domain.NotificationStatus) error
}

// IdempotencyStore remembers which sale a checkout key produced. A key is
// reserved before the sale is written and completed with the sale ID after.
type IdempotencyStore interface {
	// Reserve claims key. When it is already held, saleID is the sale it
	// produced, or empty while that checkout is still running.
	Reserve(ctx context.Context, key string) (reserved bool, saleID string, err error)
	Complete(ctx context.Context, key, saleID string) error
	Release(ctx context.Context, key string) error
}

// CheckoutInput carries everything needed to turn a cart into a sale.
type CheckoutInput struct {
	CartID         string
	EmployeeID     string
	EmployeeName   string
	EmployeeRole   string
	PaymentMethod  string
	OrderType      string
	TableNumber    int
	CustomerName   string
	Tip            decimal.Decimal
	IdempotencyKey string
}

// CanAccess reports whether the caller may act on a cart or sale owned by
// ownerID. Managers may act on any.
func (in CheckoutInput) CanAccess(ownerID string) bool {
	return ownerID == in.EmployeeID || in.EmployeeRole == domain.RoleManager
}

// CheckoutResult is returned by Checkout.
type CheckoutResult struct {
	Sale *domain.Sale
	// AlreadyExisted is true when the Idempotency-Key matched an earlier checkout.
	AlreadyExisted bool
}

// CheckoutService turns carts into sales.
type CheckoutService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	VoidSale(ctx context.Context, id string) (*domain.Sale, error)
}

// ListSalesResult is a page of sales.
type ListSalesResult struct {
	Items      []*domain.Sale
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ItemSales aggregates one menu item over a period.
type ItemSales struct {
	MenuItemID string
	Name       string
	Quantity   int
	Revenue    decimal.Decimal
}

// DaySales aggregates one calendar day (UTC).
type DaySales struct {
	Date  string // YYYY-MM-DD
	Count int
	Gross decimal.Decimal
}

// SalesSummary is the sales dashboard aggregate.
type SalesSummary struct {
	From            time.Time
	To              time.Time
	Count           int
	Gross           decimal.Decimal
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Tips            decimal.Decimal
	AverageTicket   decimal.Decimal
	ByPaymentMethod map[string]decimal.Decimal
	TopItems        []ItemSales
	Daily           []DaySales
}

// SalesService defines the sales dashboard use cases.
type SalesService interface {
	ListSales(ctx context.Context, filter ListSalesFilter) (*ListSalesResult, error)
	Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
}
