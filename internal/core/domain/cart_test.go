package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func burgerLine(id string, qty int, extras ...Extra) CartLine {
	return CartLine{
		ID:         id,
		MenuItemID: "burger",
		Name:       "Burger",
		UnitPrice:  dec("9.50"),
		Quantity:   qty,
		Extras:     extras,
	}
}

func TestCartLine_Totals(t *testing.T) {
	line := burgerLine("l1", 3,
		Extra{ID: "cheese", Name: "Cheese", Price: dec("1.25")},
		Extra{ID: "bacon", Name: "Bacon", Price: dec("2.00")},
	)

	assert.True(t, line.UnitTotal().Equal(dec("12.75")), "unit total: %s", line.UnitTotal())
	assert.True(t, line.Total().Equal(dec("38.25")), "line total: %s", line.Total())
}

func TestCart_AddLine_MergesIdenticalLines(t *testing.T) {
	cheese := Extra{ID: "cheese", Name: "Cheese", Price: dec("1.25")}
	bacon := Extra{ID: "bacon", Name: "Bacon", Price: dec("2.00")}
	cart := &Cart{ID: "c1"}

	_, err := cart.AddLine(burgerLine("l1", 1, cheese, bacon))
	require.NoError(t, err)

	// Same extras in a different order still merge.
	merged, err := cart.AddLine(burgerLine("l2", 2, bacon, cheese))
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "l1", merged.ID)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestCart_AddLine_DifferentExtrasOrNotesStaySeparate(t *testing.T) {
	cart := &Cart{ID: "c1"}
	_, _ = cart.AddLine(burgerLine("l1", 1))
	_, _ = cart.AddLine(burgerLine("l2", 1, Extra{ID: "cheese", Price: dec("1")}))

	noOnion := burgerLine("l3", 1)
	noOnion.Notes = "no onion"
	_, _ = cart.AddLine(noOnion)

	assert.Len(t, cart.Lines, 3)
}

func TestCart_AddLine_RejectsBadQuantity(t *testing.T) {
	cart := &Cart{}
	_, err := cart.AddLine(burgerLine("l1", 0))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_SetQuantity(t *testing.T) {
	cart := &Cart{}
	_, _ = cart.AddLine(burgerLine("l1", 1))

	require.NoError(t, cart.SetQuantity("l1", 4))
	assert.Equal(t, 4, cart.Lines[0].Quantity)

	assert.ErrorIs(t, cart.SetQuantity("missing", 2), ErrCartLineNotFound)
	assert.ErrorIs(t, cart.SetQuantity("l1", -1), ErrInvalidQuantity)

	require.NoError(t, cart.SetQuantity("l1", 0))
	assert.True(t, cart.IsEmpty())
}

func TestCart_RemoveAndClear(t *testing.T) {
	cart := &Cart{}
	_, _ = cart.AddLine(burgerLine("l1", 1))
	fries := CartLine{ID: "l2", MenuItemID: "fries", UnitPrice: dec("3"), Quantity: 1}
	_, _ = cart.AddLine(fries)

	require.NoError(t, cart.RemoveLine("l1"))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "l2", cart.Lines[0].ID)
	assert.ErrorIs(t, cart.RemoveLine("l1"), ErrCartLineNotFound)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

func TestComputeOrder(t *testing.T) {
	lines := []CartLine{
		burgerLine("l1", 2, Extra{ID: "cheese", Price: dec("1.25")}),        // 2 x 10.75 = 21.50
		{ID: "l2", MenuItemID: "soda", UnitPrice: dec("2.35"), Quantity: 3}, // 7.05
	}

	order, err := ComputeOrder(lines, dec("0.0825"), dec("5"), "USD")
	require.NoError(t, err)

	assert.Equal(t, 5, order.ItemCount)
	assert.True(t, order.Subtotal.Equal(dec("28.55")), "subtotal: %s", order.Subtotal)
	// 28.55 * 0.0825 = 2.355375 -> 2.36
	assert.True(t, order.Tax.Equal(dec("2.36")), "tax: %s", order.Tax)
	assert.True(t, order.Total.Equal(dec("35.91")), "total: %s", order.Total)
	assert.Equal(t, "USD", order.Currency)
}

func TestComputeOrder_Validation(t *testing.T) {
	lines := []CartLine{burgerLine("l1", 1)}
	subCentPrice := burgerLine("l1", 1)
	subCentPrice.UnitPrice = dec("0.004")
	subCentExtra := burgerLine("l1", 1, Extra{ID: "cheese", Price: dec("0.125")})

	cases := []struct {
		name    string
		lines   []CartLine
		taxRate decimal.Decimal
		tip     decimal.Decimal
		want    error
	}{
		{"negative tax", lines, dec("-0.1"), decimal.Zero, ErrInvalidTaxRate},
		{"tax above one", lines, dec("1.5"), decimal.Zero, ErrInvalidTaxRate},
		{"negative tip", lines, dec("0.1"), dec("-1"), ErrInvalidAmount},
		{"sub-cent tip", lines, dec("0.1"), dec("0.004"), ErrInvalidAmount},
		{"sub-cent unit price", []CartLine{subCentPrice}, decimal.Zero, decimal.Zero, ErrInvalidAmount},
		{"sub-cent extra", []CartLine{subCentExtra}, decimal.Zero, decimal.Zero, ErrInvalidAmount},
		{"zero quantity", []CartLine{burgerLine("l1", 0)}, dec("0.1"), decimal.Zero, ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeOrder(tc.lines, tc.taxRate, tc.tip, "USD")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComputeOrder_EmptyIsZero(t *testing.T) {
	order, err := ComputeOrder(nil, dec("0.1"), decimal.Zero, "USD")
	require.NoError(t, err)
	assert.True(t, order.Total.IsZero())
	assert.Equal(t, 0, order.ItemCount)
}

func TestIsMoneyAmount(t *testing.T) {
	assert.True(t, IsMoneyAmount(dec("0")))
	assert.True(t, IsMoneyAmount(dec("12.30")))
	assert.True(t, IsMoneyAmount(dec("12.300")), "trailing zeros are still whole cents")
	assert.False(t, IsMoneyAmount(dec("0.004")))
	assert.False(t, IsMoneyAmount(dec("-1")))
}

func TestComputeOrder_TotalsAreWholeCents(t *testing.T) {
	line := burgerLine("l1", 3)
	line.UnitPrice = dec("0.35")
	order, err := ComputeOrder([]CartLine{line}, dec("0.0825"), dec("0.10"), "USD")
	require.NoError(t, err)

	// 1.05 subtotal, 0.086625 tax rounds to 0.09
	assert.True(t, order.Total.Equal(dec("1.24")), "total: %s", order.Total)
	assert.True(t, IsMoneyAmount(order.Total))
}

func TestValidPasscode(t *testing.T) {
	assert.True(t, ValidPasscode("1234"))
	assert.True(t, ValidPasscode("12345678"))
	assert.False(t, ValidPasscode("123"))
	assert.False(t, ValidPasscode("123456789"))
	assert.False(t, ValidPasscode("12a4"))
}

func TestSettings_Validate(t *testing.T) {
	ok := &Settings{Currency: "USD", TaxRate: dec("0.07")}
	assert.NoError(t, ok.Validate())

	badRate := &Settings{Currency: "USD", TaxRate: dec("2")}
	assert.ErrorIs(t, badRate.Validate(), ErrInvalidTaxRate)

	badCurrency := &Settings{Currency: "usd", TaxRate: dec("0.07")}
	assert.ErrorIs(t, badCurrency.Validate(), ErrInvalidCurrency)
}
