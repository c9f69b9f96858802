// Package mcptools exposes scoring and ranking to MCP clients over stdio.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// NewServer registers every KreaTask tool on a fresh MCP server.
func NewServer(version string, leaderboard ports.LeaderboardService) *server.MCPServer {
	s := server.NewMCPServer(
		"kreatask",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	scoreTool := NewScoreTaskTool()
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	roleTool := NewClassifyRoleTool()
	s.AddTool(roleTool.Definition(), roleTool.Handle)

	leaderboardTool := NewLeaderboardTool(leaderboard)
	s.AddTool(leaderboardTool.Definition(), leaderboardTool.Handle)

	standingTool := NewStandingTool(leaderboard)
	s.AddTool(standingTool.Definition(), standingTool.Handle)

	return s
}

const instructions = `KreaTask scores completed tasks and ranks users by their total points.

Use kreatask_score_task to preview the points a task would earn, kreatask_leaderboard
for the current ranking and kreatask_user_standing for one user's position.
Rankings come from the same aggregation the web leaderboard uses.`
