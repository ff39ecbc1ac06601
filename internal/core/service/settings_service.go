package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

const settingsCacheTTL = 30 * time.Second

// SettingsService serves the register settings, falling back to defaults
// until a manager saves them. Reads are cached for settingsCacheTTL.
type SettingsService struct {
	repo     ports.SettingsRepository
	defaults domain.Settings
	logger   zerolog.Logger

	mu       sync.Mutex
	cached   *domain.Settings
	cachedAt time.Time
}

func NewSettingsService(repo ports.SettingsRepository, defaults domain.Settings, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, defaults: defaults, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < settingsCacheTTL {
		clone := *s.cached
		return &clone, nil
	}

	stored, err := s.repo.Get(ctx)
	switch {
	case errors.Is(err, domain.ErrSettingsNotFound):
		d := s.defaults
		stored = &d
	case err != nil:
		return nil, err
	}

	s.cached = stored
	s.cachedAt = time.Now()
	clone := *stored
	return &clone, nil
}

func (s *SettingsService) Update(ctx context.Context, input ports.UpdateSettingsInput) (*domain.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.RestaurantName != nil {
		current.RestaurantName = strings.TrimSpace(*input.RestaurantName)
	}
	if input.Currency != nil {
		current.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.TaxRate != nil {
		current.TaxRate = *input.TaxRate
	}
	if input.ReceiptFooter != nil {
		current.ReceiptFooter = *input.ReceiptFooter
	}
	if err := current.Validate(); err != nil {
		return nil, err
	}
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	s.mu.Lock()
	saved := *current
	s.cached = &saved
	s.cachedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info().
		Str("tax_rate", current.TaxRate.String()).
		Str("currency", current.Currency).
		Msg("settings updated")
	return current, nil
}
