package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

func TestInventoryService_CreateAndDuplicate(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := NewInventoryService(repo, discardLogger)

	item, err := svc.Create(context.Background(), ports.InventoryItemInput{SKU: " bun ", Name: "Brioche bun", Unit: "pcs", Quantity: 40, LowStockThreshold: 10})
	require.NoError(t, err)
	assert.Equal(t, "bun", item.SKU)

	_, err = svc.Create(context.Background(), ports.InventoryItemInput{SKU: "bun", Name: "Again"})
	assert.ErrorIs(t, err, domain.ErrInventoryItemExists)
}

func TestInventoryService_Create_Validation(t *testing.T) {
	svc := NewInventoryService(newStubInventoryRepo(), discardLogger)

	cases := []struct {
		name string
		in   ports.InventoryItemInput
		want error
	}{
		{"blank sku", ports.InventoryItemInput{Name: "x"}, domain.ErrInvalidSKU},
		{"blank name", ports.InventoryItemInput{SKU: "x"}, domain.ErrInvalidName},
		{"negative quantity", ports.InventoryItemInput{SKU: "x", Name: "x", Quantity: -1}, domain.ErrInvalidQuantity},
		{"negative threshold", ports.InventoryItemInput{SKU: "x", Name: "x", LowStockThreshold: -1}, domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestInventoryService_Adjust(t *testing.T) {
	repo := newStubInventoryRepo(&domain.InventoryItem{SKU: "bun", Name: "Bun", Quantity: 5})
	svc := NewInventoryService(repo, discardLogger)

	item, err := svc.Adjust(context.Background(), "bun", 10, "delivery")
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	_, err = svc.Adjust(context.Background(), "bun", -20, "waste")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 15, repo.items["bun"].Quantity)

	_, err = svc.Adjust(context.Background(), "nope", 1, "")
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)
}

func TestInventoryService_LowStockAndUpdate(t *testing.T) {
	repo := newStubInventoryRepo(
		&domain.InventoryItem{SKU: "bun", Name: "Bun", Quantity: 2, LowStockThreshold: 5},
		&domain.InventoryItem{SKU: "patty", Name: "Patty", Quantity: 5, LowStockThreshold: 5},
		&domain.InventoryItem{SKU: "soda", Name: "Soda", Quantity: 50, LowStockThreshold: 5},
	)
	svc := NewInventoryService(repo, discardLogger)

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "bun", low[0].SKU)
	assert.Equal(t, "patty", low[1].SKU)

	_, err = svc.Update(context.Background(), "soda", ports.InventoryItemInput{Name: "Soda can", Quantity: 3, LowStockThreshold: 5})
	require.NoError(t, err)
	low, _ = svc.LowStock(context.Background())
	assert.Len(t, low, 3)

	require.NoError(t, svc.Delete(context.Background(), "soda"))
	_, err = svc.Get(context.Background(), "soda")
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)
}
