package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

const defaultLeaderboardLimit = 10

// LeaderboardHandler serves rankings.
type LeaderboardHandler struct {
	service ports.LeaderboardService
}

func NewLeaderboardHandler(service ports.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

type leaderboardResponse struct {
	Mode    domain.LeaderboardMode    `json:"mode"`
	Total   int                       `json:"total"`
	Entries []domain.LeaderboardEntry `json:"entries"`
	// Skipped lists completed tasks that could not be scored.
	Skipped []domain.ScoringFault `json:"skipped,omitempty"`
}

type standingResponse struct {
	Mode  domain.LeaderboardMode  `json:"mode"`
	Total int                     `json:"total"`
	Entry domain.LeaderboardEntry `json:"entry"`
}

// Get handles GET /v1/leaderboard.
//
// @Summary      Ranking by total points
// @Tags         leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        mode   query     string  false  "all (default) or employees"
// @Param        limit  query     int     false  "Top N (default 10, 0 for everyone)"
// @Success      200    {object}  leaderboardResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/leaderboard [get]
func (h *LeaderboardHandler) Get(c echo.Context) error {
	limit := defaultLeaderboardLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	res, err := h.service.Compute(c.Request().Context(), c.QueryParam("mode"), limit)
	if err != nil {
		return err
	}
	entries := res.Entries
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(http.StatusOK, leaderboardResponse{
		Mode:    res.Mode,
		Total:   res.Total,
		Entries: entries,
		Skipped: res.Faults,
	})
}

// Standing handles GET /v1/leaderboard/users/:id.
//
// @Summary      One user's rank
// @Tags         leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "User ID"
// @Param        mode  query     string  false  "all (default) or employees"
// @Success      200   {object}  standingResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/leaderboard/users/{id} [get]
func (h *LeaderboardHandler) Standing(c echo.Context) error {
	return h.standing(c, c.Param("id"))
}

// MyStanding handles GET /v1/leaderboard/me.
//
// @Summary      The current user's rank
// @Tags         leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        mode  query     string  false  "all (default) or employees"
// @Success      200   {object}  standingResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/leaderboard/me [get]
func (h *LeaderboardHandler) MyStanding(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	return h.standing(c, actor.ID)
}

func (h *LeaderboardHandler) standing(c echo.Context, userID string) error {
	mode := c.QueryParam("mode")
	st, err := h.service.Standing(c.Request().Context(), userID, mode)
	if err != nil {
		return err
	}
	parsed, _ := domain.ParseLeaderboardMode(mode)
	return c.JSON(http.StatusOK, standingResponse{Mode: parsed, Total: st.Total, Entry: st.Entry})
}
