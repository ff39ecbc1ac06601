package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

func sampleMenu() *stubMenuRepo {
	return newStubMenuRepo(
		&domain.MenuItem{
			ID:        "burger",
			Name:      "Burger",
			Category:  "mains",
			Price:     dec("9.50"),
			Available: true,
			Extras: []domain.Extra{
				{ID: "cheese", Name: "Cheese", Price: dec("1.25")},
				{ID: "bacon", Name: "Bacon", Price: dec("2.00")},
			},
			InventorySKU: "bun",
		},
		&domain.MenuItem{ID: "soda", Name: "Soda", Category: "drinks", Price: dec("2.35"), Available: true},
		&domain.MenuItem{ID: "special", Name: "Special", Category: "mains", Price: dec("15"), Available: false},
	)
}

func newCartService(store *stubCartStore) *CartService {
	return NewCartService(store, sampleMenu(), fixedTax{rate: "0.10", currency: "USD"}, discardLogger)
}

func TestCartService_CreateCart(t *testing.T) {
	store := newStubCartStore()
	svc := newCartService(store)

	view, err := svc.CreateCart(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Cart.ID == "" || view.Cart.EmployeeID != "emp-1" {
		t.Fatalf("unexpected cart: %+v", view.Cart)
	}
	if !view.Order.Total.IsZero() {
		t.Errorf("new cart must total zero, got %s", view.Order.Total)
	}
	if _, ok := store.carts[view.Cart.ID]; !ok {
		t.Errorf("cart not stored")
	}
}

func TestCartService_AddItem_SnapshotsMenuAndPrices(t *testing.T) {
	store := newStubCartStore()
	svc := newCartService(store)
	view, _ := svc.CreateCart(context.Background(), "emp-1")

	view, err := svc.AddItem(context.Background(), ports.AddItemInput{
		CartID:     view.Cart.ID,
		MenuItemID: "burger",
		Quantity:   2,
		ExtraIDs:   []string{"cheese"},
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if len(view.Cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Cart.Lines))
	}
	line := view.Cart.Lines[0]
	if line.Name != "Burger" || !line.UnitPrice.Equal(dec("9.50")) || line.InventorySKU != "bun" {
		t.Errorf("line did not snapshot menu item: %+v", line)
	}
	// 2 x (9.50 + 1.25) = 21.50, tax 2.15
	if !view.Order.Subtotal.Equal(dec("21.50")) {
		t.Errorf("subtotal: got %s", view.Order.Subtotal)
	}
	if !view.Order.Tax.Equal(dec("2.15")) {
		t.Errorf("tax: got %s", view.Order.Tax)
	}
	if !view.Order.Total.Equal(dec("23.65")) {
		t.Errorf("total: got %s", view.Order.Total)
	}
}

func TestCartService_AddItem_Errors(t *testing.T) {
	store := newStubCartStore()
	svc := newCartService(store)
	view, _ := svc.CreateCart(context.Background(), "emp-1")
	cartID := view.Cart.ID

	cases := []struct {
		name string
		in   ports.AddItemInput
		want error
	}{
		{"unknown cart", ports.AddItemInput{CartID: "nope", MenuItemID: "soda", Quantity: 1}, domain.ErrCartNotFound},
		{"unknown item", ports.AddItemInput{CartID: cartID, MenuItemID: "nope", Quantity: 1}, domain.ErrMenuItemNotFound},
		{"unavailable", ports.AddItemInput{CartID: cartID, MenuItemID: "special", Quantity: 1}, domain.ErrItemUnavailable},
		{"bad extra", ports.AddItemInput{CartID: cartID, MenuItemID: "soda", Quantity: 1, ExtraIDs: []string{"cheese"}}, domain.ErrInvalidExtra},
		{"zero quantity", ports.AddItemInput{CartID: cartID, MenuItemID: "soda", Quantity: 0}, domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	store := newStubCartStore()
	svc := newCartService(store)
	view, _ := svc.CreateCart(context.Background(), "emp-1")
	cartID := view.Cart.ID

	view, _ = svc.AddItem(context.Background(), ports.AddItemInput{CartID: cartID, MenuItemID: "soda", Quantity: 1})
	view, _ = svc.AddItem(context.Background(), ports.AddItemInput{CartID: cartID, MenuItemID: "burger", Quantity: 1})
	sodaLine := view.Cart.Lines[0].ID

	view, err := svc.UpdateLineQuantity(context.Background(), cartID, sodaLine, 3)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if view.Order.ItemCount != 4 {
		t.Errorf("expected 4 items, got %d", view.Order.ItemCount)
	}

	view, err = svc.RemoveLine(context.Background(), cartID, sodaLine)
	if err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if len(view.Cart.Lines) != 1 {
		t.Errorf("expected 1 line after removal, got %d", len(view.Cart.Lines))
	}

	if _, err := svc.RemoveLine(context.Background(), cartID, sodaLine); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Errorf("expected ErrCartLineNotFound, got %v", err)
	}

	view, err = svc.ClearCart(context.Background(), cartID)
	if err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if !view.Cart.IsEmpty() {
		t.Errorf("cart must be empty after clear")
	}
	if len(store.carts[cartID].Lines) != 0 {
		t.Errorf("cleared cart not persisted")
	}

	if err := svc.DeleteCart(context.Background(), cartID); err != nil {
		t.Fatalf("delete cart: %v", err)
	}
	if _, err := svc.GetCart(context.Background(), cartID); !errors.Is(err, domain.ErrCartNotFound) {
		t.Errorf("expected ErrCartNotFound after delete, got %v", err)
	}
}

func TestCartService_SaveError(t *testing.T) {
	store := newStubCartStore()
	store.saveErr = errBoom
	svc := newCartService(store)

	if _, err := svc.CreateCart(context.Background(), "emp-1"); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
