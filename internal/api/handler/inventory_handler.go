package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// InventoryHandler serves the inventory dashboard.
type InventoryHandler struct {
	service ports.InventoryService
}

func NewInventoryHandler(service ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type inventoryRequest struct {
	SKU               string `json:"sku"                 validate:"required,max=64"`
	Name              string `json:"name"                validate:"required,max=100"`
	Unit              string `json:"unit"                validate:"max=20"`
	Quantity          int    `json:"quantity"            validate:"gte=0"`
	LowStockThreshold int    `json:"low_stock_threshold" validate:"gte=0"`
}

type updateInventoryRequest struct {
	Name              string `json:"name"                validate:"required,max=100"`
	Unit              string `json:"unit"                validate:"max=20"`
	Quantity          int    `json:"quantity"            validate:"gte=0"`
	LowStockThreshold int    `json:"low_stock_threshold" validate:"gte=0"`
}

type adjustRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"max=200"`
}

type inventoryResponse struct {
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Unit              string `json:"unit,omitempty"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	Low               bool   `json:"low"`
	UpdatedAt         string `json:"updated_at"`
}

func toInventoryResponse(i *domain.InventoryItem) inventoryResponse {
	return inventoryResponse{
		SKU:               i.SKU,
		Name:              i.Name,
		Unit:              i.Unit,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		Low:               i.IsLow(),
		UpdatedAt:         i.UpdatedAt.Format(time.RFC3339),
	}
}

func toInventoryResponses(items []*domain.InventoryItem) []inventoryResponse {
	out := make([]inventoryResponse, len(items))
	for i, it := range items {
		out[i] = toInventoryResponse(it)
	}
	return out
}

// List handles GET /v1/inventory.
//
// @Summary      List inventory
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  inventoryResponse
// @Router       /v1/inventory [get]
func (h *InventoryHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInventoryResponses(items))
}

// LowStock handles GET /v1/inventory/low-stock.
//
// @Summary      List low-stock items
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  inventoryResponse
// @Router       /v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c echo.Context) error {
	items, err := h.service.LowStock(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInventoryResponses(items))
}

// Get handles GET /v1/inventory/:sku.
//
// @Summary      Get an inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        sku  path      string  true  "SKU"
// @Success      200  {object}  inventoryResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/inventory/{sku} [get]
func (h *InventoryHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInventoryResponse(item))
}

// Create handles POST /v1/inventory.
//
// @Summary      Create an inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      inventoryRequest  true  "Inventory item"
// @Success      201   {object}  inventoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/inventory [post]
func (h *InventoryHandler) Create(c echo.Context) error {
	var req inventoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.Create(c.Request().Context(), ports.InventoryItemInput{
		SKU:               req.SKU,
		Name:              req.Name,
		Unit:              req.Unit,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toInventoryResponse(item))
}

// Update handles PUT /v1/inventory/:sku.
//
// @Summary      Update an inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sku   path      string                  true  "SKU"
// @Param        body  body      updateInventoryRequest  true  "Inventory item"
// @Success      200   {object}  inventoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/inventory/{sku} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	var req updateInventoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.Update(c.Request().Context(), c.Param("sku"), ports.InventoryItemInput{
		Name:              req.Name,
		Unit:              req.Unit,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInventoryResponse(item))
}

// Adjust handles POST /v1/inventory/:sku/adjust.
//
// @Summary      Adjust stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sku   path      string         true  "SKU"
// @Param        body  body      adjustRequest  true  "Signed quantity change"
// @Success      200   {object}  inventoryResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/inventory/{sku}/adjust [post]
func (h *InventoryHandler) Adjust(c echo.Context) error {
	var req adjustRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.Adjust(c.Request().Context(), c.Param("sku"), req.Delta, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInventoryResponse(item))
}

// Delete handles DELETE /v1/inventory/:sku.
//
// @Summary      Delete an inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Param        sku  path  string  true  "SKU"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/inventory/{sku} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("sku")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
