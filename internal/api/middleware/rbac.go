package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// RequirePermission guards a route with a table action. Targeted actions
// (role change, deletion) need the target record and are checked by the
// services instead.
func RequirePermission(gate ports.Authorizer, action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if err := gate.Authorize(c.Request().Context(), actor, action, nil); err != nil {
				if errors.Is(err, domain.ErrPermissionDenied) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
				return err
			}
			return next(c)
		}
	}
}

// RequireAssignedRole rejects accounts that have not been given a role yet.
func RequireAssignedRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if actor.Role.IsUnassigned() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "account awaiting role assignment"})
			}
			return next(c)
		}
	}
}
