package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one menu item (with its chosen extras) in a cart. Name and
// prices are snapshotted when the line is added so later menu edits do not
// change an open order.
type CartLine struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Extras       []Extra         `json:"extras,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	InventorySKU string          `json:"inventory_sku,omitempty"`
}

// UnitTotal is the price of a single unit including its extras.
func (l CartLine) UnitTotal() decimal.Decimal {
	total := l.UnitPrice
	for _, e := range l.Extras {
		total = total.Add(e.Price)
	}
	return total
}

// Total is UnitTotal multiplied by the quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) pricedInCents() bool {
	if !IsMoneyAmount(l.UnitPrice) {
		return false
	}
	for _, e := range l.Extras {
		if !IsMoneyAmount(e.Price) {
			return false
		}
	}
	return true
}

func (l CartLine) mergeableWith(other CartLine) bool {
	if l.MenuItemID != other.MenuItemID || l.Notes != other.Notes {
		return false
	}
	return slices.Equal(extraIDs(l.Extras), extraIDs(other.Extras))
}

func extraIDs(extras []Extra) []string {
	ids := make([]string, len(extras))
	for i, e := range extras {
		ids[i] = e.ID
	}
	slices.Sort(ids)
	return ids
}

// Cart is an open order being assembled at the register.
type Cart struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Lines      []CartLine `json:"lines"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AddLine appends line to the cart, or bumps the quantity of an existing
// line for the same item with the same extras and notes. It returns the
// resulting line.
func (c *Cart) AddLine(line CartLine) (CartLine, error) {
	if line.Quantity < 1 {
		return CartLine{}, ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].mergeableWith(line) {
			c.Lines[i].Quantity += line.Quantity
			return c.Lines[i], nil
		}
	}
	c.Lines = append(c.Lines, line)
	return line, nil
}

// SetQuantity changes the quantity of a line. A quantity of zero removes it.
func (c *Cart) SetQuantity(lineID string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		return c.RemoveLine(lineID)
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Quantity = qty
			return nil
		}
	}
	return ErrCartLineNotFound
}

// RemoveLine deletes a line from the cart.
func (c *Cart) RemoveLine(lineID string) error {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = slices.Delete(c.Lines, i, i+1)
			return nil
		}
	}
	return ErrCartLineNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// OrderData is the priced view of a set of cart lines.
type OrderData struct {
	Lines     []CartLine
	ItemCount int
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	Tax       decimal.Decimal
	Tip       decimal.Decimal
	Total     decimal.Decimal
	Currency  string
}

// ComputeOrder prices lines at taxRate. Tax is rounded to cents once, on
// the subtotal; total = subtotal + tax + tip.
func ComputeOrder(lines []CartLine, taxRate, tip decimal.Decimal, currency string) (OrderData, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return OrderData{}, ErrInvalidTaxRate
	}
	if !IsMoneyAmount(tip) {
		return OrderData{}, ErrInvalidAmount
	}

	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		if l.Quantity < 1 {
			return OrderData{}, ErrInvalidQuantity
		}
		if !l.pricedInCents() {
			return OrderData{}, ErrInvalidAmount
		}
		subtotal = subtotal.Add(l.Total())
		count += l.Quantity
	}

	tax := RoundMoney(subtotal.Mul(taxRate))
	return OrderData{
		Lines:     lines,
		ItemCount: count,
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		Tax:       tax,
		Tip:       tip,
		Total:     subtotal.Add(tax).Add(tip),
		Currency:  currency,
	}, nil
}

// IsMoneyAmount reports whether d is a non-negative whole number of cents.
func IsMoneyAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(2))
}

// RoundMoney rounds an amount to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
