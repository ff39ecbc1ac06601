package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
)

// MenuFilter narrows menu listings.
type MenuFilter struct {
	Category           string // optional
	IncludeUnavailable bool
}

// MenuRepository persists menu items.
type MenuRepository interface {
	List(ctx context.Context, filter MenuFilter) ([]*domain.MenuItem, error)
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

// ExtraInput describes an extra on a create/update request.
type ExtraInput struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// MenuItemInput carries the writable fields of a menu item.
type MenuItemInput struct {
	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal
	Extras       []ExtraInput
	Available    bool
	InventorySKU string
}

// MenuService defines menu browsing and management use cases.
type MenuService interface {
	ListMenu(ctx context.Context, filter MenuFilter) ([]*domain.MenuItem, error)
	GetItem(ctx context.Context, id string) (*domain.MenuItem, error)
	CreateItem(ctx context.Context, input MenuItemInput) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, id string, input MenuItemInput) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}
