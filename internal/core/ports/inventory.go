package ports

import (
	"context"

	"github.com/bistro/pos-system/internal/core/domain"
)

// InventoryRepository persists stock entries.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)
	List(ctx context.Context) ([]*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, sku string) error
	// Adjust adds delta to the quantity and fails with ErrInsufficientStock
	// when the result would be negative.
	Adjust(ctx context.Context, sku string, delta int) (*domain.InventoryItem, error)
	// Consume subtracts qty, clamping the quantity at zero.
	Consume(ctx context.Context, sku string, qty int) error
}

// InventoryItemInput carries the writable fields of a stock entry.
type InventoryItemInput struct {
	SKU               string
	Name              string
	Unit              string
	Quantity          int
	LowStockThreshold int
}

// InventoryService defines the inventory dashboard use cases.
type InventoryService interface {
	List(ctx context.Context) ([]*domain.InventoryItem, error)
	Get(ctx context.Context, sku string) (*domain.InventoryItem, error)
	Create(ctx context.Context, input InventoryItemInput) (*domain.InventoryItem, error)
	Update(ctx context.Context, sku string, input InventoryItemInput) (*domain.InventoryItem, error)
	Adjust(ctx context.Context, sku string, delta int, reason string) (*domain.InventoryItem, error)
	LowStock(ctx context.Context) ([]*domain.InventoryItem, error)
	Delete(ctx context.Context, sku string) error
}
