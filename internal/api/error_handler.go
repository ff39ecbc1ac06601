package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

var notFoundErrors = []error{
	domain.ErrMenuItemNotFound,
	domain.ErrCartNotFound,
	domain.ErrCartLineNotFound,
	domain.ErrSaleNotFound,
	domain.ErrEmployeeNotFound,
	domain.ErrInventoryItemNotFound,
}

var invalidInputErrors = []error{
	domain.ErrInvalidExtra,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidAmount,
	domain.ErrInvalidPayment,
	domain.ErrInvalidOrderType,
	domain.ErrInvalidPasscode,
	domain.ErrInvalidRole,
	domain.ErrInvalidName,
	domain.ErrInvalidSKU,
	domain.ErrInvalidTaxRate,
	domain.ErrInvalidCurrency,
}

var conflictErrors = []error{
	domain.ErrItemUnavailable,
	domain.ErrEmptyCart,
	domain.ErrCartConflict,
	domain.ErrCheckoutPending,
	domain.ErrSaleVoided,
	domain.ErrInventoryItemExists,
	domain.ErrInsufficientStock,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, err.Error()
	case isAny(err, invalidInputErrors):
		return http.StatusBadRequest, err.Error()
	case isAny(err, conflictErrors):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrEmployeeInactive):
		return http.StatusForbidden, "employee is inactive"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrSelfModification):
		return http.StatusForbidden, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
