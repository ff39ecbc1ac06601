package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/api/metrics"
	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// CheckoutHandler turns carts into sales and manages recorded sales.
type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Checkout handles POST /v1/checkout.
// A repeated Idempotency-Key returns the original sale with 200 instead of 201,
// or 409 while the first request is still running.
//
// @Summary      Check out a cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Client-generated key for safe retries"
// @Param        body             body      checkoutRequest  true   "Checkout details"
// @Success      201              {object}  saleResponse
// @Success      200              {object}  saleResponse
// @Failure      400              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	key := c.Request().Header.Get(headerIdempotencyKey)
	if len(key) > 128 {
		return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key must be at most 128 characters")
	}

	res, err := h.service.Checkout(c.Request().Context(), ports.CheckoutInput{
		CartID:         req.CartID,
		EmployeeID:     a.ID,
		EmployeeName:   a.Name,
		EmployeeRole:   a.Role,
		PaymentMethod:  req.PaymentMethod,
		OrderType:      req.OrderType,
		TableNumber:    req.TableNumber,
		CustomerName:   req.CustomerName,
		Tip:            req.Tip,
		IdempotencyKey: key,
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		return c.JSON(http.StatusOK, toSaleResponse(res.Sale))
	}
	metrics.ObserveOrder(string(res.Sale.PaymentMethod), string(res.Sale.OrderType), res.Sale.Total)
	c.Response().Header().Set(echo.HeaderLocation, "/v1/sales/"+res.Sale.ID)
	return c.JSON(http.StatusCreated, toSaleResponse(res.Sale))
}

// GetSale handles GET /v1/sales/:id. Staff can only see their own sales.
//
// @Summary      Get a sale
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  saleResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/sales/{id} [get]
func (h *CheckoutHandler) GetSale(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	sale, err := h.service.GetSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if sale.EmployeeID != a.ID && !a.isManager() {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, toSaleResponse(sale))
}

// VoidSale handles POST /v1/sales/:id/void.
//
// @Summary      Void a sale
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  saleResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/sales/{id}/void [post]
func (h *CheckoutHandler) VoidSale(c echo.Context) error {
	sale, err := h.service.VoidSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.OrdersVoidedTotal.Inc()
	return c.JSON(http.StatusOK, toSaleResponse(sale))
}
