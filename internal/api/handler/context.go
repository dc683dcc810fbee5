package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and performs a fast-fail check before any service call: a missing or
// unparseable role means the token predates a role change or the middleware
// did not run — reject with 401 either way.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	username, _ := c.Get("username").(string)
	roleStr, _ := c.Get("role").(string)

	if userID == "" || roleStr == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries an unknown role")
	}

	return ports.Actor{UserID: userID, Username: username, Role: role}, nil
}
