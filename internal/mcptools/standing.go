package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// StandingTool reports one user's rank.
type StandingTool struct {
	service ports.LeaderboardService
}

// NewStandingTool creates a StandingTool backed by the leaderboard service.
func NewStandingTool(service ports.LeaderboardService) *StandingTool {
	return &StandingTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *StandingTool) Definition() mcp.Tool {
	return mcp.NewTool("kreatask_user_standing",
		mcp.WithDescription("Show where one user sits in the ranking."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User ID"),
		),
		mcp.WithString("mode",
			mcp.Description("Eligible population (default: all)"),
			mcp.Enum("all", "employees"),
		),
	)
}

// Handle processes the kreatask_user_standing tool call.
func (t *StandingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	if userID == "" {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	st, err := t.service.Standing(ctx, userID, req.GetString("mode", ""))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("user %q is not ranked", userID)), nil
	case errors.Is(err, domain.ErrInvalidLeaderboardMode):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		return nil, fmt.Errorf("loading standing: %w", err)
	}

	e := st.Entry
	text := fmt.Sprintf("%s is ranked %d of %d with %d points from %d completed tasks.\n",
		e.Name, e.Rank, st.Total, e.Score, e.TasksCompleted)
	return mcp.NewToolResultText(text), nil
}
