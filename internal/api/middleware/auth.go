package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/core/domain"
)

// Context keys set by Auth.
const (
	CtxEmployeeID   = "employee_id"
	CtxEmployeeName = "employee_name"
	CtxRole         = "role"
)

// EmployeeLookup resolves the employee a token was issued to.
type EmployeeLookup interface {
	Get(ctx context.Context, id string) (*domain.Employee, error)
}

// Auth validates the session JWT, then reloads the employee so that a
// deactivated, deleted or demoted employee loses access immediately. Name and
// role in the context come from the stored record, not from the token.
func Auth(jwtSecret string, employees EmployeeLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			emp, err := employees.Get(c.Request().Context(), sub)
			if err != nil {
				if errors.Is(err, domain.ErrEmployeeNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}
			if !emp.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "employee is inactive")
			}

			c.Set(CtxEmployeeID, emp.ID)
			c.Set(CtxEmployeeName, emp.Name)
			c.Set(CtxRole, emp.Role)

			return next(c)
		}
	}
}
