package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Extra is an optional add-on that can be attached to a menu item
// (extra cheese, oat milk, ...).
type Extra struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// MenuItem is a sellable dish or drink.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Extras      []Extra
	Available   bool
	// InventorySKU links the item to a stock entry decremented on checkout.
	// Empty means the item is not stock-tracked.
	InventorySKU string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FindExtra returns the extra with the given ID.
func (m *MenuItem) FindExtra(id string) (Extra, bool) {
	for _, e := range m.Extras {
		if e.ID == id {
			return e, true
		}
	}
	return Extra{}, false
}

// Validate checks the price invariants of the item and its extras.
func (m *MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrInvalidName
	}
	if !IsMoneyAmount(m.Price) {
		return ErrInvalidAmount
	}
	for _, e := range m.Extras {
		if !IsMoneyAmount(e.Price) {
			return ErrInvalidAmount
		}
	}
	return nil
}
