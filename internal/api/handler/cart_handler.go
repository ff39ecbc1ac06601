package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// CartHandler serves the open carts of the register. Staff may only touch
// carts they created; managers may touch any.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addItemRequest struct {
	MenuItemID string   `json:"menu_item_id" validate:"required"`
	Quantity   int      `json:"quantity"     validate:"required,min=1,max=99"`
	ExtraIDs   []string `json:"extra_ids"`
	Notes      string   `json:"notes"        validate:"max=200"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

type lineResponse struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  string          `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Extras     []extraResponse `json:"extras"`
	Notes      string          `json:"notes,omitempty"`
	LineTotal  string          `json:"line_total"`
}

type totalsResponse struct {
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
	TaxRate   string `json:"tax_rate"`
	Tax       string `json:"tax"`
	Tip       string `json:"tip"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
}

type cartResponse struct {
	ID         string         `json:"id"`
	EmployeeID string         `json:"employee_id"`
	Lines      []lineResponse `json:"lines"`
	Totals     totalsResponse `json:"totals"`
	UpdatedAt  string         `json:"updated_at"`
}

func toLineResponses(lines []domain.CartLine) []lineResponse {
	out := make([]lineResponse, len(lines))
	for i, l := range lines {
		out[i] = lineResponse{
			ID:         l.ID,
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  money(l.UnitPrice),
			Quantity:   l.Quantity,
			Extras:     toExtraResponses(l.Extras),
			Notes:      l.Notes,
			LineTotal:  money(l.Total()),
		}
	}
	return out
}

func toCartResponse(v *ports.CartView) cartResponse {
	return cartResponse{
		ID:         v.Cart.ID,
		EmployeeID: v.Cart.EmployeeID,
		Lines:      toLineResponses(v.Cart.Lines),
		Totals: totalsResponse{
			ItemCount: v.Order.ItemCount,
			Subtotal:  money(v.Order.Subtotal),
			TaxRate:   v.Order.TaxRate.String(),
			Tax:       money(v.Order.Tax),
			Tip:       money(v.Order.Tip),
			Total:     money(v.Order.Total),
			Currency:  v.Order.Currency,
		},
		UpdatedAt: v.Cart.UpdatedAt.Format(time.RFC3339),
	}
}

// owned loads the cart and checks the actor may use it.
func (h *CartHandler) owned(ctx context.Context, a actor, cartID string) (*ports.CartView, error) {
	view, err := h.service.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if view.Cart.EmployeeID != a.ID && !a.isManager() {
		return nil, domain.ErrForbidden
	}
	return view, nil
}

// Create handles POST /v1/carts.
//
// @Summary      Open a new cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  cartResponse
// @Router       /v1/carts [post]
func (h *CartHandler) Create(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	view, err := h.service.CreateCart(c.Request().Context(), a.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCartResponse(view))
}

// Get handles GET /v1/carts/:id.
//
// @Summary      Get a cart with its totals
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart ID"
// @Success      200  {object}  cartResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/carts/{id} [get]
func (h *CartHandler) Get(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	view, err := h.owned(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// AddItem handles POST /v1/carts/:id/items.
//
// @Summary      Add a menu item to a cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Cart ID"
// @Param        body  body      addItemRequest  true  "Item to add"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/carts/{id}/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req addItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cartID := c.Param("id")
	if _, err := h.owned(c.Request().Context(), a, cartID); err != nil {
		return err
	}
	view, err := h.service.AddItem(c.Request().Context(), ports.AddItemInput{
		CartID:     cartID,
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		ExtraIDs:   req.ExtraIDs,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// UpdateLine handles PATCH /v1/carts/:id/items/:line_id. Quantity 0 removes the line.
//
// @Summary      Change a line quantity
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Cart ID"
// @Param        line_id  path      string             true  "Line ID"
// @Param        body     body      updateLineRequest  true  "New quantity"
// @Success      200      {object}  cartResponse
// @Failure      404      {object}  map[string]string
// @Router       /v1/carts/{id}/items/{line_id} [patch]
func (h *CartHandler) UpdateLine(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req updateLineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cartID := c.Param("id")
	if _, err := h.owned(c.Request().Context(), a, cartID); err != nil {
		return err
	}
	view, err := h.service.UpdateLineQuantity(c.Request().Context(), cartID, c.Param("line_id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// RemoveLine handles DELETE /v1/carts/:id/items/:line_id.
//
// @Summary      Remove a line from a cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Cart ID"
// @Param        line_id  path      string  true  "Line ID"
// @Success      200      {object}  cartResponse
// @Failure      404      {object}  map[string]string
// @Router       /v1/carts/{id}/items/{line_id} [delete]
func (h *CartHandler) RemoveLine(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	cartID := c.Param("id")
	if _, err := h.owned(c.Request().Context(), a, cartID); err != nil {
		return err
	}
	view, err := h.service.RemoveLine(c.Request().Context(), cartID, c.Param("line_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Clear handles DELETE /v1/carts/:id/items.
//
// @Summary      Empty a cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart ID"
// @Success      200  {object}  cartResponse
// @Router       /v1/carts/{id}/items [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	cartID := c.Param("id")
	if _, err := h.owned(c.Request().Context(), a, cartID); err != nil {
		return err
	}
	view, err := h.service.ClearCart(c.Request().Context(), cartID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Delete handles DELETE /v1/carts/:id.
//
// @Summary      Discard a cart
// @Tags         carts
// @Security     BearerAuth
// @Param        id   path  string  true  "Cart ID"
// @Success      204
// @Router       /v1/carts/{id} [delete]
func (h *CartHandler) Delete(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	cartID := c.Param("id")
	if _, err := h.owned(c.Request().Context(), a, cartID); err != nil {
		return err
	}
	if err := h.service.DeleteCart(c.Request().Context(), cartID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
