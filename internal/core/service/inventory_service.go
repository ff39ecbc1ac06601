package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type InventoryService struct {
	repo   ports.InventoryRepository
	logger zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

func (s *InventoryService) List(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.repo.List(ctx)
}

func (s *InventoryService) Get(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	return s.repo.FindBySKU(ctx, sku)
}

func (s *InventoryService) Create(ctx context.Context, in ports.InventoryItemInput) (*domain.InventoryItem, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.ErrInvalidSKU
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if in.Quantity < 0 || in.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	item := &domain.InventoryItem{
		SKU:               sku,
		Name:              strings.TrimSpace(in.Name),
		Unit:              in.Unit,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Str("sku", sku).Int("quantity", item.Quantity).Msg("inventory item created")
	return item, nil
}

// Update replaces name, unit, quantity and threshold. The SKU is immutable.
func (s *InventoryService) Update(ctx context.Context, sku string, in ports.InventoryItemInput) (*domain.InventoryItem, error) {
	item, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if in.Quantity < 0 || in.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Unit = in.Unit
	item.Quantity = in.Quantity
	item.LowStockThreshold = in.LowStockThreshold
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Adjust changes stock by delta (positive for deliveries, negative for
// waste or corrections). Stock cannot go below zero this way.
func (s *InventoryService) Adjust(ctx context.Context, sku string, delta int, reason string) (*domain.InventoryItem, error) {
	item, err := s.repo.Adjust(ctx, sku, delta)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("sku", sku).
		Int("delta", delta).
		Int("quantity", item.Quantity).
		Str("reason", reason).
		Msg("inventory adjusted")
	return item, nil
}

func (s *InventoryService) LowStock(ctx context.Context) ([]*domain.InventoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]*domain.InventoryItem, 0)
	for _, it := range items {
		if it.IsLow() {
			low = append(low, it)
		}
	}
	return low, nil
}

func (s *InventoryService) Delete(ctx context.Context, sku string) error {
	if err := s.repo.Delete(ctx, sku); err != nil {
		return err
	}
	s.logger.Info().Str("sku", sku).Msg("inventory item deleted")
	return nil
}
