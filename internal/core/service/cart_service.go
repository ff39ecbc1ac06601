package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// TaxSource supplies the current tax rate and currency.
type TaxSource interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

type CartService struct {
	carts    ports.CartStore
	menu     ports.MenuRepository
	settings TaxSource
	logger   zerolog.Logger
}

func NewCartService(carts ports.CartStore, menu ports.MenuRepository, settings TaxSource, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, menu: menu, settings: settings, logger: logger}
}

func (s *CartService) CreateCart(ctx context.Context, employeeID string) (*ports.CartView, error) {
	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Lines:      []domain.CartLine{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	s.logger.Debug().Str("cart_id", cart.ID).Str("employee_id", employeeID).Msg("cart created")
	return s.view(ctx, cart)
}

func (s *CartService) GetCart(ctx context.Context, id string) (*ports.CartView, error) {
	cart, err := s.carts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// AddItem snapshots the menu item's current name, price and chosen extras
// into a new (or merged) cart line.
func (s *CartService) AddItem(ctx context.Context, in ports.AddItemInput) (*ports.CartView, error) {
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	item, err := s.menu.FindByID(ctx, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}

	extras := make([]domain.Extra, 0, len(in.ExtraIDs))
	for _, id := range in.ExtraIDs {
		extra, ok := item.FindExtra(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidExtra, id)
		}
		extras = append(extras, extra)
	}

	line := domain.CartLine{
		ID:           uuid.NewString(),
		MenuItemID:   item.ID,
		Name:         item.Name,
		UnitPrice:    item.Price,
		Quantity:     in.Quantity,
		Extras:       extras,
		Notes:        in.Notes,
		InventorySKU: item.InventorySKU,
	}
	return s.update(ctx, in.CartID, func(cart *domain.Cart) error {
		_, err := cart.AddLine(line)
		return err
	})
}

func (s *CartService) UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (*ports.CartView, error) {
	return s.update(ctx, cartID, func(cart *domain.Cart) error {
		return cart.SetQuantity(lineID, quantity)
	})
}

func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID string) (*ports.CartView, error) {
	return s.update(ctx, cartID, func(cart *domain.Cart) error {
		return cart.RemoveLine(lineID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) (*ports.CartView, error) {
	return s.update(ctx, cartID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
}

func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	return s.carts.Delete(ctx, cartID)
}

func (s *CartService) update(ctx context.Context, cartID string, fn func(*domain.Cart) error) (*ports.CartView, error) {
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) view(ctx context.Context, cart *domain.Cart) (*ports.CartView, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	order, err := domain.ComputeOrder(cart.Lines, settings.TaxRate, decimal.Zero, settings.Currency)
	if err != nil {
		return nil, err
	}
	return &ports.CartView{Cart: cart, Order: order}, nil
}
