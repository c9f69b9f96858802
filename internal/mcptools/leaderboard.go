package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

const defaultTop = 10

// LeaderboardTool lists the ranking.
type LeaderboardTool struct {
	service ports.LeaderboardService
}

// NewLeaderboardTool creates a LeaderboardTool backed by the leaderboard service.
func NewLeaderboardTool(service ports.LeaderboardService) *LeaderboardTool {
	return &LeaderboardTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *LeaderboardTool) Definition() mcp.Tool {
	return mcp.NewTool("kreatask_leaderboard",
		mcp.WithDescription("List users ranked by total points from completed tasks."),
		mcp.WithString("mode",
			mcp.Description("Eligible population (default: all)"),
			mcp.Enum("all", "employees"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max entries (default: 10, 0 for everyone)"),
		),
	)
}

// Handle processes the kreatask_leaderboard tool call.
func (t *LeaderboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", defaultTop))
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	res, err := t.service.Compute(ctx, req.GetString("mode", ""), limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLeaderboardMode) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("computing leaderboard: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Leaderboard (%s)\n\n", res.Mode)
	if len(res.Entries) == 0 {
		sb.WriteString("No ranked users yet.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	for _, e := range res.Entries {
		fmt.Fprintf(&sb, "%d. %s (%s): %d points, %d tasks\n", e.Rank, e.Name, e.Role, e.Score, e.TasksCompleted)
	}
	if len(res.Entries) < res.Total {
		fmt.Fprintf(&sb, "\nShowing %d of %d ranked users.\n", len(res.Entries), res.Total)
	}
	if len(res.Faults) > 0 {
		fmt.Fprintf(&sb, "%d completed task(s) could not be scored and were left out.\n", len(res.Faults))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
