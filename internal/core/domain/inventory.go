package domain

import "time"

// InventoryItem is a stock entry tracked by SKU.
type InventoryItem struct {
	SKU               string
	Name              string
	Unit              string
	Quantity          int
	LowStockThreshold int
	UpdatedAt         time.Time
}

// IsLow reports whether the item is at or below its low-stock threshold.
func (i *InventoryItem) IsLow() bool {
	return i.Quantity <= i.LowStockThreshold
}
