package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// PermissionHandler exposes the role/action table.
type PermissionHandler struct {
	service ports.PermissionService
}

func NewPermissionHandler(service ports.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

type setPermissionRequest struct {
	Role    string `json:"role"    validate:"required"`
	Action  string `json:"action"  validate:"required"`
	Allowed *bool  `json:"allowed" validate:"required"`
}

// Table handles GET /v1/settings/permissions.
//
// @Summary      Current permission table
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PermissionEntry
// @Router       /v1/settings/permissions [get]
func (h *PermissionHandler) Table(c echo.Context) error {
	entries, err := h.service.Table(c.Request().Context())
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.PermissionEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// Set handles PUT /v1/settings/permissions.
//
// @Summary      Allow or deny an action for a role
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setPermissionRequest  true  "Permission entry"
// @Success      200   {object}  domain.PermissionEntry
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/settings/permissions [put]
func (h *PermissionHandler) Set(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req setPermissionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.Set(c.Request().Context(), actor, req.Role, req.Action, *req.Allowed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}
