package ports

import (
	"context"

	"github.com/bistro/pos-system/internal/core/domain"
)

// CartStore keeps open carts. Implementations expire idle carts.
type CartStore interface {
	Save(ctx context.Context, cart *domain.Cart) error
	Get(ctx context.Context, id string) (*domain.Cart, error)
	// Update applies fn to the stored cart and saves the result atomically.
	// Concurrent writers never lose each other's changes.
	Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

// AddItemInput is the request to put a menu item in a cart.
type AddItemInput struct {
	CartID     string
	MenuItemID string
	Quantity   int
	ExtraIDs   []string
	Notes      string
}

// CartView is a cart together with its priced totals.
type CartView struct {
	Cart  *domain.Cart
	Order domain.OrderData
}

// CartService defines cart management use cases.
type CartService interface {
	CreateCart(ctx context.Context, employeeID string) (*CartView, error)
	GetCart(ctx context.Context, id string) (*CartView, error)
	AddItem(ctx context.Context, input AddItemInput) (*CartView, error)
	UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (*CartView, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*CartView, error)
	ClearCart(ctx context.Context, cartID string) (*CartView, error)
	DeleteCart(ctx context.Context, cartID string) error
}
