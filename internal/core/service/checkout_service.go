package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type CheckoutService struct {
	carts       ports.CartStore
	sales       ports.SaleRepository
	inventory   ports.InventoryRepository
	settings    TaxSource
	idempotency ports.IdempotencyStore
	queue       ports.OrderQueue
	logger      zerolog.Logger
}

func NewCheckoutService(
	carts ports.CartStore,
	sales ports.SaleRepository,
	inventory ports.InventoryRepository,
	settings TaxSource,
	idempotency ports.IdempotencyStore,
	queue ports.OrderQueue,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		sales:       sales,
		inventory:   inventory,
		settings:    settings,
		idempotency: idempotency,
		queue:       queue,
		logger:      logger,
	}
}

// Checkout prices the cart, records the sale, consumes stock, drops the
// cart and queues the order for downstream delivery. The idempotency key is
// reserved before anything is written: a repeated key returns the original
// sale, and a retry racing an unfinished checkout gets ErrCheckoutPending.
func (s *CheckoutService) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	payment := domain.PaymentMethod(in.PaymentMethod)
	if !payment.Valid() {
		return nil, domain.ErrInvalidPayment
	}
	orderType := domain.OrderType(in.OrderType)
	if !orderType.Valid() {
		return nil, domain.ErrInvalidOrderType
	}

	// 1. Reserve the key or replay the sale it already produced.
	key := in.IdempotencyKey
	if key != "" {
		reserved, saleID, err := s.idempotency.Reserve(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reservation failed, processing anyway")
			key = ""
		case !reserved && saleID == "":
			return nil, domain.ErrCheckoutPending
		case !reserved:
			sale, err := s.replay(ctx, in, saleID)
			if err != nil {
				return nil, err
			}
			return &ports.CheckoutResult{Sale: sale, AlreadyExisted: true}, nil
		}
	}

	// 2. Price and persist.
	sale, err := s.record(ctx, in, payment, orderType)
	if err != nil {
		if key != "" {
			if rerr := s.idempotency.Release(context.WithoutCancel(ctx), key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	// 3. Stock, cart and idempotency bookkeeping never fail a recorded sale.
	if key != "" {
		if err := s.idempotency.Complete(ctx, key, sale.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
		}
	}
	s.consumeStock(ctx, sale)
	if err := s.carts.Delete(ctx, in.CartID); err != nil {
		s.logger.Warn().Err(err).Str("cart_id", in.CartID).Msg("failed to delete checked-out cart")
	}

	// 4. Hand off to the notification workers.
	s.queue.Enqueue(NewOrderNotification(sale))

	s.logger.Info().
		Str("sale_id", sale.ID).
		Str("order_number", sale.OrderNumber).
		Str("employee_id", sale.EmployeeID).
		Str("total", sale.Total.String()).
		Msg("checkout completed")

	return &ports.CheckoutResult{Sale: sale}, nil
}

// record loads the caller's cart, prices it and stores the sale.
func (s *CheckoutService) record(ctx context.Context, in ports.CheckoutInput, payment domain.PaymentMethod, orderType domain.OrderType) (*domain.Sale, error) {
	cart, err := s.carts.Get(ctx, in.CartID)
	if err != nil {
		return nil, err
	}
	if !in.CanAccess(cart.EmployeeID) {
		s.logger.Warn().Str("cart_id", cart.ID).Str("employee_id", in.EmployeeID).Msg("checkout of another employee's cart refused")
		return nil, domain.ErrForbidden
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	order, err := domain.ComputeOrder(cart.Lines, settings.TaxRate, in.Tip, settings.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := &domain.Sale{
		ID:            uuid.NewString(),
		OrderNumber:   generateOrderNumber(now),
		EmployeeID:    in.EmployeeID,
		EmployeeName:  in.EmployeeName,
		Lines:         order.Lines,
		ItemCount:     order.ItemCount,
		Subtotal:      order.Subtotal,
		TaxRate:       order.TaxRate,
		Tax:           order.Tax,
		Tip:           order.Tip,
		Total:         order.Total,
		Currency:      order.Currency,
		PaymentMethod: payment,
		OrderType:     orderType,
		TableNumber:   in.TableNumber,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Status:        domain.SaleCompleted,
		Notification:  domain.NotificationPending,
		CreatedAt:     now,
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		s.logger.Error().Err(err).Str("cart_id", in.CartID).Msg("failed to record sale")
		return nil, fmt.Errorf("record sale: %w", err)
	}
	return sale, nil
}

func (s *CheckoutService) replay(ctx context.Context, in ports.CheckoutInput, saleID string) (*domain.Sale, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("replay checkout: %w", err)
	}
	if !in.CanAccess(sale.EmployeeID) {
		return nil, domain.ErrForbidden
	}
	s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_number", sale.OrderNumber).Msg("idempotent replay")
	return sale, nil
}

func (s *CheckoutService) consumeStock(ctx context.Context, sale *domain.Sale) {
	for _, line := range sale.Lines {
		if line.InventorySKU == "" {
			continue
		}
		if err := s.inventory.Consume(ctx, line.InventorySKU, line.Quantity); err != nil {
			s.logger.Warn().Err(err).
				Str("sku", line.InventorySKU).
				Str("order_number", sale.OrderNumber).
				Msg("failed to consume stock")
		}
	}
}

func (s *CheckoutService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.sales.FindByID(ctx, id)
}

// VoidSale marks a completed sale as voided. Stock is not restored.
func (s *CheckoutService) VoidSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status == domain.SaleVoided {
		return nil, domain.ErrSaleVoided
	}
	now := time.Now().UTC()
	if err := s.sales.UpdateStatus(ctx, id, domain.SaleVoided, now); err != nil {
		if errors.Is(err, domain.ErrSaleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("void sale: %w", err)
	}
	sale.Status = domain.SaleVoided
	sale.VoidedAt = now
	s.logger.Info().Str("sale_id", id).Str("order_number", sale.OrderNumber).Msg("sale voided")
	return sale, nil
}

// generateOrderNumber returns an order number in the format ORD-YYYYMMDD-XXXXXX.
func generateOrderNumber(at time.Time) string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ORD-%s-%06X", at.Format("20060102"), at.UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("ORD-%s-%06X", at.Format("20060102"), b)
}

// NewOrderNotification builds the downstream payload for a sale.
func NewOrderNotification(sale *domain.Sale) ports.OrderNotification {
	lines := make([]ports.OrderNotificationLine, len(sale.Lines))
	for i, l := range sale.Lines {
		extras := make([]string, len(l.Extras))
		for j, e := range l.Extras {
			extras[j] = e.Name
		}
		lines[i] = ports.OrderNotificationLine{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice.StringFixed(2),
			Extras:     extras,
			Notes:      l.Notes,
			LineTotal:  l.Total().StringFixed(2),
		}
	}
	return ports.OrderNotification{
		Event:         ports.EventOrderCreated,
		SaleID:        sale.ID,
		OrderNumber:   sale.OrderNumber,
		OrderType:     string(sale.OrderType),
		TableNumber:   sale.TableNumber,
		CustomerName:  sale.CustomerName,
		EmployeeName:  sale.EmployeeName,
		PaymentMethod: string(sale.PaymentMethod),
		Lines:         lines,
		Subtotal:      sale.Subtotal.StringFixed(2),
		Tax:           sale.Tax.StringFixed(2),
		Tip:           sale.Tip.StringFixed(2),
		Total:         sale.Total.StringFixed(2),
		Currency:      sale.Currency,
		CreatedAt:     sale.CreatedAt,
	}
}
