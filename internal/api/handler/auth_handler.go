package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/api/metrics"
	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Passcode   string `json:"passcode"    validate:"required,numeric,min=4,max=8"`
}

type authResponse struct {
	Token    string           `json:"token"`
	Employee employeeResponse `json:"employee"`
}

// Login authenticates an employee by passcode and returns a session token.
//
// @Summary      Login with employee passcode
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Employee credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, emp, err := h.authService.Login(c.Request().Context(), req.EmployeeID, req.Passcode)
	metrics.LoginsTotal.WithLabelValues(metrics.LoginResult(err)).Inc()
	if err != nil {
		// Do not reveal whether the employee exists.
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, Employee: toEmployeeResponse(emp)})
}

// Me returns the claims of the current session.
//
// @Summary      Current employee
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"id":   a.ID,
		"name": a.Name,
		"role": a.Role,
	})
}
