package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// SettingsHandler serves the register settings.
type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

type updateSettingsRequest struct {
	RestaurantName *string          `json:"restaurant_name" validate:"omitempty,min=1,max=100"`
	Currency       *string          `json:"currency"        validate:"omitempty,len=3"`
	TaxRate        *decimal.Decimal `json:"tax_rate"        validate:"omitempty,gte=0,lte=1"`
	ReceiptFooter  *string          `json:"receipt_footer"  validate:"omitempty,max=500"`
}

type settingsResponse struct {
	RestaurantName string `json:"restaurant_name"`
	Currency       string `json:"currency"`
	TaxRate        string `json:"tax_rate"`
	ReceiptFooter  string `json:"receipt_footer,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

func toSettingsResponse(s *domain.Settings) settingsResponse {
	resp := settingsResponse{
		RestaurantName: s.RestaurantName,
		Currency:       s.Currency,
		TaxRate:        s.TaxRate.String(),
		ReceiptFooter:  s.ReceiptFooter,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// Get handles GET /v1/settings.
//
// @Summary      Get register settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  settingsResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	s, err := h.service.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSettingsResponse(s))
}

// Update handles PATCH /v1/settings.
//
// @Summary      Update register settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSettingsRequest  true  "Fields to change"
// @Success      200   {object}  settingsResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/settings [patch]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req updateSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.Update(c.Request().Context(), ports.UpdateSettingsInput{
		RestaurantName: req.RestaurantName,
		Currency:       req.Currency,
		TaxRate:        req.TaxRate,
		ReceiptFooter:  req.ReceiptFooter,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSettingsResponse(s))
}
