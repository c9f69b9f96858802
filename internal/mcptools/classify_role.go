package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// ClassifyRoleTool reports how KreaTask treats a role name.
type ClassifyRoleTool struct{}

// NewClassifyRoleTool creates a ClassifyRoleTool.
func NewClassifyRoleTool() *ClassifyRoleTool {
	return &ClassifyRoleTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ClassifyRoleTool) Definition() mcp.Tool {
	return mcp.NewTool("kreatask_classify_role",
		mcp.WithDescription(
			"Resolve a role name (canonical or legacy label) and report whether it "+
				"counts as an employee, a director or the super admin.",
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Role name, e.g. Creative Director or Team Member"),
		),
	)
}

// Handle processes the kreatask_classify_role tool call.
func (t *ClassifyRoleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("role", "")
	if name == "" {
		return mcp.NewToolResultError("role is required"), nil
	}
	role, ok := domain.ParseRole(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown role %q", name)), nil
	}

	text := fmt.Sprintf("Role: %s\nEmployee: %t\nDirector: %t\nSuper admin: %t\nUnassigned: %t\n",
		role, role.IsEmployee(), role.IsDirector(), role.IsSuperAdmin(), role.IsUnassigned())
	return mcp.NewToolResultText(text), nil
}
