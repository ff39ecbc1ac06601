package domain

import "errors"

// Menu
var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrItemUnavailable  = errors.New("menu item is not available")
	ErrInvalidExtra     = errors.New("extra does not belong to menu item")
)

// Cart and orders
var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidAmount    = errors.New("amount must be a non-negative number of whole cents")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrSaleVoided       = errors.New("sale already voided")
	ErrInvalidPayment   = errors.New("payment method must be cash or card")
	ErrInvalidOrderType = errors.New("order type must be dine_in or takeout")
	ErrCartConflict     = errors.New("cart was modified concurrently, retry")
	ErrCheckoutPending  = errors.New("a checkout with this idempotency key is still in progress")
)

// Employees and auth
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPasscode    = errors.New("passcode must be 4 to 8 digits")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidName        = errors.New("name is required")
	ErrSelfModification   = errors.New("managers cannot remove or deactivate themselves")
	ErrForbidden          = errors.New("access forbidden")
)

// Inventory
var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInventoryItemExists   = errors.New("inventory item already exists")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidSKU            = errors.New("sku is required")
)

// Settings
var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrInvalidTaxRate   = errors.New("tax rate must be between 0 and 1")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO 4217 code")
)
