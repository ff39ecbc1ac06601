package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// MenuHandler serves menu browsing (all employees) and management (managers).
type MenuHandler struct {
	service ports.MenuService
}

func NewMenuHandler(service ports.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

type extraRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"  validate:"required,max=60"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

type menuItemRequest struct {
	Name         string          `json:"name"          validate:"required,max=100"`
	Description  string          `json:"description"   validate:"max=500"`
	Category     string          `json:"category"      validate:"required,max=60"`
	Price        decimal.Decimal `json:"price"         validate:"gte=0"`
	Extras       []extraRequest  `json:"extras"        validate:"dive"`
	Available    *bool           `json:"available"`
	InventorySKU string          `json:"inventory_sku" validate:"max=60"`
}

func (r menuItemRequest) toInput() ports.MenuItemInput {
	in := ports.MenuItemInput{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Price:        r.Price,
		Available:    r.Available == nil || *r.Available,
		InventorySKU: r.InventorySKU,
		Extras:       make([]ports.ExtraInput, len(r.Extras)),
	}
	for i, e := range r.Extras {
		in.Extras[i] = ports.ExtraInput{ID: e.ID, Name: e.Name, Price: e.Price}
	}
	return in
}

type extraResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type menuItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Price        string          `json:"price"`
	Extras       []extraResponse `json:"extras"`
	Available    bool            `json:"available"`
	InventorySKU string          `json:"inventory_sku,omitempty"`
	UpdatedAt    string          `json:"updated_at"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toExtraResponses(extras []domain.Extra) []extraResponse {
	out := make([]extraResponse, len(extras))
	for i, e := range extras {
		out[i] = extraResponse{ID: e.ID, Name: e.Name, Price: money(e.Price)}
	}
	return out
}

func toMenuItemResponse(m *domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Category:     m.Category,
		Price:        money(m.Price),
		Extras:       toExtraResponses(m.Extras),
		Available:    m.Available,
		InventorySKU: m.InventorySKU,
		UpdatedAt:    m.UpdatedAt.Format(time.RFC3339),
	}
}

// List handles GET /v1/menu.
//
// @Summary      Browse the menu
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        category             query     string  false  "Filter by category"
// @Param        include_unavailable  query     bool    false  "Include unavailable items (managers only)"
// @Success      200                  {array}   menuItemResponse
// @Router       /v1/menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	includeUnavailable, _ := strconv.ParseBool(c.QueryParam("include_unavailable"))

	items, err := h.service.ListMenu(c.Request().Context(), ports.MenuFilter{
		Category:           c.QueryParam("category"),
		IncludeUnavailable: includeUnavailable && a.isManager(),
	})
	if err != nil {
		return err
	}
	out := make([]menuItemResponse, len(items))
	for i, it := range items {
		out[i] = toMenuItemResponse(it)
	}
	return c.JSON(http.StatusOK, out)
}

// Categories handles GET /v1/menu/categories.
//
// @Summary      List menu categories
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  string
// @Router       /v1/menu/categories [get]
func (h *MenuHandler) Categories(c echo.Context) error {
	cats, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// Get handles GET /v1/menu/:id.
//
// @Summary      Get a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Menu item ID"
// @Success      200  {object}  menuItemResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/menu/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	item, err := h.service.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMenuItemResponse(item))
}

// Create handles POST /v1/menu.
//
// @Summary      Create a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      201   {object}  menuItemResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.CreateItem(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMenuItemResponse(item))
}

// Update handles PUT /v1/menu/:id.
//
// @Summary      Replace a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Menu item ID"
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      200   {object}  menuItemResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/menu/{id} [put]
func (h *MenuHandler) Update(c echo.Context) error {
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.UpdateItem(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMenuItemResponse(item))
}

// Delete handles DELETE /v1/menu/:id.
//
// @Summary      Delete a menu item
// @Tags         menu
// @Security     BearerAuth
// @Param        id   path  string  true  "Menu item ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/menu/{id} [delete]
func (h *MenuHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
