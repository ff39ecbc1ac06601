package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type checkoutFixture struct {
	carts     *stubCartStore
	sales     *stubSaleRepo
	inventory *stubInventoryRepo
	idem      *stubIdempotency
	queue     *recordingQueue
	svc       *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:     newStubCartStore(),
		sales:     newStubSaleRepo(),
		inventory: newStubInventoryRepo(&domain.InventoryItem{SKU: "bun", Quantity: 3, LowStockThreshold: 1}),
		idem:      newStubIdempotency(),
		queue:     &recordingQueue{},
	}
	f.svc = NewCheckoutService(f.carts, f.sales, f.inventory, fixedTax{rate: "0.08", currency: "USD"}, f.idem, f.queue, discardLogger)
	return f
}

func (f *checkoutFixture) seedCart(id string, lines ...domain.CartLine) {
	f.carts.carts[id] = &domain.Cart{ID: id, EmployeeID: "emp-1", Lines: lines}
}

func checkoutInput(cartID string) ports.CheckoutInput {
	return ports.CheckoutInput{
		CartID:        cartID,
		EmployeeID:    "emp-1",
		EmployeeName:  "Ana",
		PaymentMethod: "card",
		OrderType:     "dine_in",
		TableNumber:   7,
		Tip:           dec("2.00"),
	}
}

func burger(qty int) domain.CartLine {
	return domain.CartLine{ID: "l1", MenuItemID: "burger", Name: "Burger", UnitPrice: dec("10.00"), Quantity: qty, InventorySKU: "bun"}
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("cart-1", burger(2))

	res, err := f.svc.Checkout(context.Background(), checkoutInput("cart-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sale := res.Sale
	if res.AlreadyExisted {
		t.Error("expected AlreadyExisted=false for new checkout")
	}

	if !regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`).MatchString(sale.OrderNumber) {
		t.Errorf("order number format wrong: %s", sale.OrderNumber)
	}
	// 20.00 subtotal, 1.60 tax, 2.00 tip
	if !sale.Subtotal.Equal(dec("20")) || !sale.Tax.Equal(dec("1.60")) || !sale.Total.Equal(dec("23.60")) {
		t.Errorf("unexpected totals: subtotal=%s tax=%s total=%s", sale.Subtotal, sale.Tax, sale.Total)
	}
	if sale.Status != domain.SaleCompleted || sale.Notification != domain.NotificationPending {
		t.Errorf("unexpected status: %s / %s", sale.Status, sale.Notification)
	}
	if sale.Currency != "USD" || sale.TableNumber != 7 || sale.EmployeeName != "Ana" {
		t.Errorf("unexpected sale fields: %+v", sale)
	}

	if _, ok := f.sales.byID[sale.ID]; !ok {
		t.Error("sale not persisted")
	}
	if _, ok := f.carts.carts["cart-1"]; ok {
		t.Error("cart must be deleted after checkout")
	}
	if got := f.inventory.items["bun"].Quantity; got != 1 {
		t.Errorf("expected stock 1 after consuming 2, got %d", got)
	}
	if len(f.queue.items) != 1 {
		t.Fatalf("expected 1 queued notification, got %d", len(f.queue.items))
	}
	n := f.queue.items[0]
	if n.SaleID != sale.ID || n.Total != "23.60" || n.Event != ports.EventOrderCreated {
		t.Errorf("unexpected notification: %+v", n)
	}
	if len(n.Lines) != 1 || n.Lines[0].LineTotal != "20.00" {
		t.Errorf("unexpected notification lines: %+v", n.Lines)
	}
}

func TestCheckoutService_Checkout_StockClampsAtZero(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("cart-1", burger(5))

	if _, err := f.svc.Checkout(context.Background(), checkoutInput("cart-1")); err != nil {
		t.Fatalf("checkout must not fail on short stock: %v", err)
	}
	if got := f.inventory.items["bun"].Quantity; got != 0 {
		t.Errorf("expected stock clamped at 0, got %d", got)
	}
}

func TestCheckoutService_Checkout_MissingSKUDoesNotFail(t *testing.T) {
	f := newCheckoutFixture()
	line := burger(1)
	line.InventorySKU = "unknown"
	f.seedCart("cart-1", line)

	if _, err := f.svc.Checkout(context.Background(), checkoutInput("cart-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckoutService_Checkout_IdempotencyReplay(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("cart-1", burger(1))

	in := checkoutInput("cart-1")
	in.IdempotencyKey = "key-abc-123"

	first, err := f.svc.Checkout(context.Background(), in)
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	// The cart is gone now; a replay must still succeed.
	second, err := f.svc.Checkout(context.Background(), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if second.Sale.ID != first.Sale.ID || !second.AlreadyExisted {
		t.Errorf("replay must return the original sale: %+v", second)
	}
	if len(f.sales.byID) != 1 {
		t.Errorf("expected 1 stored sale, got %d", len(f.sales.byID))
	}
	if len(f.queue.items) != 1 {
		t.Errorf("replay must not re-queue notification, got %d", len(f.queue.items))
	}
}

func TestCheckoutService_Checkout_IdempotencyStoreFailureProceeds(t *testing.T) {
	f := newCheckoutFixture()
	f.idem.reserveErr = errBoom
	f.seedCart("cart-1", burger(1))

	in := checkoutInput("cart-1")
	in.IdempotencyKey = "k"
	if _, err := f.svc.Checkout(context.Background(), in); err != nil {
		t.Fatalf("lookup failure must not block checkout: %v", err)
	}
}

func TestCheckoutService_Checkout_RetryWhileSavingIsRejected(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("cart-1", burger(1))
	in := checkoutInput("cart-1")
	in.IdempotencyKey = "key-abc-123"

	var retryErr error
	f.sales.beforeCreate = func() {
		_, retryErr = f.svc.Checkout(context.Background(), in)
	}

	first, err := f.svc.Checkout(context.Background(), in)
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	if !errors.Is(retryErr, domain.ErrCheckoutPending) {
		t.Fatalf("expected ErrCheckoutPending for the concurrent retry, got %v", retryErr)
	}
	if len(f.sales.byID) != 1 || len(f.queue.items) != 1 {
		t.Fatalf("expected exactly one sale and one notification, got %d and %d", len(f.sales.byID), len(f.queue.items))
	}
	if got := f.inventory.items["bun"].Quantity; got != 2 {
		t.Errorf("stock must be consumed once, got %d", got)
	}

	again, err := f.svc.Checkout(context.Background(), in)
	if err != nil || !again.AlreadyExisted || again.Sale.ID != first.Sale.ID {
		t.Fatalf("retry after completion must replay the sale: %+v, %v", again, err)
	}
}

func TestCheckoutService_Checkout_FailureReleasesKey(t *testing.T) {
	f := newCheckoutFixture()
	f.sales.createErr = errBoom
	f.seedCart("cart-1", burger(1))
	in := checkoutInput("cart-1")
	in.IdempotencyKey = "key-1"

	if _, err := f.svc.Checkout(context.Background(), in); !errors.Is(err, errBoom) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if _, held := f.idem.keys["key-1"]; held {
		t.Fatal("a failed checkout must release its idempotency key")
	}

	f.sales.createErr = nil
	res, err := f.svc.Checkout(context.Background(), in)
	if err != nil || res.AlreadyExisted {
		t.Fatalf("retry after failure must check out normally: %+v, %v", res, err)
	}
	if f.idem.keys["key-1"] != res.Sale.ID {
		t.Errorf("key must point at the new sale, got %q", f.idem.keys["key-1"])
	}
}

func TestCheckoutService_Checkout_CartOwnership(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("cart-1", burger(1))

	other := checkoutInput("cart-1")
	other.EmployeeID = "emp-2"
	other.IdempotencyKey = "key-other"
	if _, err := f.svc.Checkout(context.Background(), other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another employee's cart, got %v", err)
	}
	if _, ok := f.carts.carts["cart-1"]; !ok {
		t.Fatal("the owner's cart must survive a refused checkout")
	}
	if len(f.sales.byID) != 0 {
		t.Fatalf("no sale may be recorded, got %d", len(f.sales.byID))
	}
	if _, held := f.idem.keys["key-other"]; held {
		t.Error("refused checkout must release its idempotency key")
	}

	manager := checkoutInput("cart-1")
	manager.EmployeeID = "mgr-1"
	manager.EmployeeRole = domain.RoleManager
	res, err := f.svc.Checkout(context.Background(), manager)
	if err != nil {
		t.Fatalf("manager checkout failed: %v", err)
	}
	if res.Sale.EmployeeID != "mgr-1" {
		t.Errorf("sale must be recorded for the manager, got %s", res.Sale.EmployeeID)
	}
}

func TestCheckoutService_Checkout_ReplayOwnership(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("cart-1", burger(1))
	in := checkoutInput("cart-1")
	in.IdempotencyKey = "shared-key"
	if _, err := f.svc.Checkout(context.Background(), in); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	other := in
	other.EmployeeID = "emp-2"
	if _, err := f.svc.Checkout(context.Background(), other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("replay by another employee must be forbidden, got %v", err)
	}
}

func TestCheckoutService_Checkout_Errors(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart("empty")
	f.seedCart("cart-1", burger(1))

	badPayment := checkoutInput("cart-1")
	badPayment.PaymentMethod = "bitcoin"
	badType := checkoutInput("cart-1")
	badType.OrderType = "drive_thru"
	badTip := checkoutInput("cart-1")
	badTip.Tip = dec("-1")

	cases := []struct {
		name string
		in   ports.CheckoutInput
		want error
	}{
		{"missing cart", checkoutInput("nope"), domain.ErrCartNotFound},
		{"empty cart", checkoutInput("empty"), domain.ErrEmptyCart},
		{"bad payment", badPayment, domain.ErrInvalidPayment},
		{"bad order type", badType, domain.ErrInvalidOrderType},
		{"negative tip", badTip, domain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Checkout(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(f.sales.byID) != 0 {
		t.Errorf("failed checkouts must not record sales, got %d", len(f.sales.byID))
	}
}

func TestCheckoutService_Checkout_RepoError(t *testing.T) {
	f := newCheckoutFixture()
	f.sales.createErr = errBoom
	f.seedCart("cart-1", burger(1))

	if _, err := f.svc.Checkout(context.Background(), checkoutInput("cart-1")); !errors.Is(err, errBoom) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if _, ok := f.carts.carts["cart-1"]; !ok {
		t.Error("cart must survive a failed checkout")
	}
	if len(f.queue.items) != 0 {
		t.Error("nothing must be queued on failure")
	}
}

func TestCheckoutService_VoidSale(t *testing.T) {
	f := newCheckoutFixture()
	f.sales.byID["s1"] = &domain.Sale{ID: "s1", Status: domain.SaleCompleted, CreatedAt: time.Now()}

	sale, err := f.svc.VoidSale(context.Background(), "s1")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if sale.Status != domain.SaleVoided || sale.VoidedAt.IsZero() {
		t.Errorf("unexpected voided sale: %+v", sale)
	}
	if f.sales.byID["s1"].Status != domain.SaleVoided {
		t.Error("void not persisted")
	}

	if _, err := f.svc.VoidSale(context.Background(), "s1"); !errors.Is(err, domain.ErrSaleVoided) {
		t.Errorf("expected ErrSaleVoided, got %v", err)
	}
	if _, err := f.svc.VoidSale(context.Background(), "ghost"); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Errorf("expected ErrSaleNotFound, got %v", err)
	}
}
