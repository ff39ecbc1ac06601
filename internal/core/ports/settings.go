package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
)

// SettingsRepository persists the single settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}

// UpdateSettingsInput carries optional settings changes.
type UpdateSettingsInput struct {
	RestaurantName *string
	Currency       *string
	TaxRate        *decimal.Decimal
	ReceiptFooter  *string
}

// SettingsService defines the settings dashboard use cases.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error)
}
