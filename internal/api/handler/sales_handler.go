package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/core/ports"
)

const defaultSummaryDays = 7

// SalesHandler serves the sales dashboard.
type SalesHandler struct {
	service ports.SalesService
}

func NewSalesHandler(service ports.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

// parseBound reads a date (YYYY-MM-DD) or RFC3339 timestamp. A bare date used
// as an upper bound covers the whole day.
func parseBound(raw string, upper bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD or RFC3339")
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

func parseRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := parseBound(c.QueryParam("from"), false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseBound(c.QueryParam("to"), true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "from must be before to")
	}
	return from, to, nil
}

// List handles GET /v1/sales.
//
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        from         query     string  false  "Start date (YYYY-MM-DD or RFC3339)"
// @Param        to           query     string  false  "End date, inclusive for bare dates"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        status       query     string  false  "completed or voided"
// @Param        page         query     int     false  "Page (default 1)"
// @Param        limit        query     int     false  "Page size (default 20, max 100)"
// @Success      200          {object}  listSalesResponse
// @Failure      400          {object}  map[string]string
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c echo.Context) error {
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}
	status := c.QueryParam("status")
	if status != "" && status != "completed" && status != "voided" {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be completed or voided")
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	res, err := h.service.ListSales(c.Request().Context(), ports.ListSalesFilter{
		From:       from,
		To:         to,
		EmployeeID: c.QueryParam("employee_id"),
		Status:     status,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	items := make([]saleResponse, len(res.Items))
	for i, s := range res.Items {
		items[i] = toSaleResponse(s)
	}
	return c.JSON(http.StatusOK, listSalesResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Summary handles GET /v1/sales/summary. Defaults to the last 7 days.
//
// @Summary      Sales summary
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (YYYY-MM-DD or RFC3339)"
// @Param        to    query     string  false  "End date, inclusive for bare dates"
// @Success      200   {object}  summaryResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/sales/summary [get]
func (h *SalesHandler) Summary(c echo.Context) error {
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultSummaryDays)
	}

	sum, err := h.service.Summary(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(sum))
}
