package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/api/middleware"
	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware. A missing
// actor means the route was mounted without Auth: reject with 401.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
