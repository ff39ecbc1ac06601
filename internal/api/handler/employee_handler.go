package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// EmployeeHandler serves the employees dashboard. All routes are manager-only.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

type createEmployeeRequest struct {
	Name     string `json:"name"     validate:"required,max=80"`
	Role     string `json:"role"     validate:"required,oneof=manager staff"`
	Passcode string `json:"passcode" validate:"required,numeric,min=4,max=8"`
}

type updateEmployeeRequest struct {
	Name   *string `json:"name"   validate:"omitempty,max=80"`
	Role   *string `json:"role"   validate:"omitempty,oneof=manager staff"`
	Active *bool   `json:"active"`
}

type resetPasscodeRequest struct {
	Passcode string `json:"passcode" validate:"required,numeric,min=4,max=8"`
}

type employeeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Role:      e.Role,
		Active:    e.Active,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

// List handles GET /v1/employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   employeeResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	emps, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]employeeResponse, len(emps))
	for i, e := range emps {
		out[i] = toEmployeeResponse(e)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  employeeResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	emp, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// Create handles POST /v1/employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "New employee"
// @Success      201   {object}  employeeResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req createEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	emp, err := h.service.Create(c.Request().Context(), req.Name, req.Role, req.Passcode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(emp))
}

// Update handles PATCH /v1/employees/:id.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Employee ID"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/employees/{id} [patch]
func (h *EmployeeHandler) Update(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	var req updateEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	emp, err := h.service.Update(c.Request().Context(), a.ID, c.Param("id"), ports.UpdateEmployeeInput{
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// ResetPasscode handles PUT /v1/employees/:id/passcode.
//
// @Summary      Reset an employee passcode
// @Tags         employees
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                true  "Employee ID"
// @Param        body  body  resetPasscodeRequest  true  "New passcode"
// @Success      204
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/employees/{id}/passcode [put]
func (h *EmployeeHandler) ResetPasscode(c echo.Context) error {
	var req resetPasscodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.ResetPasscode(c.Request().Context(), c.Param("id"), req.Passcode); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/employees/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  string  true  "Employee ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), a.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
