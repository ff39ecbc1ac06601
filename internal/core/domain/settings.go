package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds the restaurant-wide register configuration.
type Settings struct {
	RestaurantName string
	Currency       string
	TaxRate        decimal.Decimal
	ReceiptFooter  string
	UpdatedAt      time.Time
}

// Validate checks the tax rate and currency code.
func (s *Settings) Validate() error {
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidTaxRate
	}
	if len(s.Currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range s.Currency {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}
