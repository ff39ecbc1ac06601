package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bistro/pos-system/internal/api/middleware"
	"github.com/bistro/pos-system/internal/core/domain"
)

// actor is the authenticated employee behind a request.
type actor struct {
	ID   string
	Name string
	Role string
}

func (a actor) isManager() bool {
	return a.Role == domain.RoleManager
}

// currentActor extracts the claims injected by the Auth middleware. A missing
// subject means the route was wired without Auth.
func currentActor(c echo.Context) (actor, error) {
	id, _ := c.Get(middleware.CtxEmployeeID).(string)
	if id == "" {
		return actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	name, _ := c.Get(middleware.CtxEmployeeName).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	return actor{ID: id, Name: name, Role: role}, nil
}
