package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type MenuService struct {
	repo   ports.MenuRepository
	logger zerolog.Logger
}

func NewMenuService(repo ports.MenuRepository, logger zerolog.Logger) *MenuService {
	return &MenuService{repo: repo, logger: logger}
}

func (s *MenuService) ListMenu(ctx context.Context, filter ports.MenuFilter) ([]*domain.MenuItem, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.List(ctx, filter)
}

func (s *MenuService) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MenuService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// CreateItem adds an item to the menu. Extras without an ID get one.
func (s *MenuService) CreateItem(ctx context.Context, input ports.MenuItemInput) (*domain.MenuItem, error) {
	now := time.Now().UTC()
	item := &domain.MenuItem{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	applyMenuInput(item, input, now)
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("name", item.Name).Msg("failed to create menu item")
		return nil, err
	}
	s.logger.Info().Str("menu_item_id", item.ID).Str("name", item.Name).Msg("menu item created")
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, id string, input ports.MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyMenuInput(item, input, time.Now().UTC())
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Str("menu_item_id", id).Msg("menu item updated")
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("menu_item_id", id).Msg("menu item deleted")
	return nil
}

func applyMenuInput(item *domain.MenuItem, in ports.MenuItemInput, now time.Time) {
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Category = strings.TrimSpace(in.Category)
	item.Price = in.Price
	item.Available = in.Available
	item.InventorySKU = strings.TrimSpace(in.InventorySKU)
	item.UpdatedAt = now

	item.Extras = make([]domain.Extra, 0, len(in.Extras))
	for _, e := range in.Extras {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		item.Extras = append(item.Extras, domain.Extra{ID: id, Name: e.Name, Price: e.Price})
	}
}
