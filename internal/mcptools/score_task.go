package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// ScoreTaskTool previews the score of a task without touching storage.
type ScoreTaskTool struct{}

// NewScoreTaskTool creates a ScoreTaskTool.
func NewScoreTaskTool() *ScoreTaskTool {
	return &ScoreTaskTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("kreatask_score_task",
		mcp.WithDescription(
			"Compute the points a completed task earns: base points by category, "+
				"+5 when completed on or before the due date, -5 when late, "+
				"-5 when it needed more than two revisions.",
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Task category"),
			mcp.Enum("Low", "Medium", "High", "Critical"),
		),
		mcp.WithString("due_date",
			mcp.Required(),
			mcp.Description("Due date, YYYY-MM-DD"),
		),
		mcp.WithString("completed_on",
			mcp.Required(),
			mcp.Description("Completion date, YYYY-MM-DD"),
		),
		mcp.WithNumber("revision_count",
			mcp.Description("Number of revisions requested (default: 0)"),
		),
	)
}

// Handle processes the kreatask_score_task tool call.
func (t *ScoreTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := domain.ParseCategory(req.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	due, err := parseDate("due_date", req.GetString("due_date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	completed, err := parseDate("completed_on", req.GetString("completed_on", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	revisions := int(req.GetFloat("revision_count", 0))
	if revisions < 0 {
		return mcp.NewToolResultError("revision_count must not be negative"), nil
	}

	b, err := domain.ScoreInput{
		Category:      category,
		DueDate:       due,
		CompletedOn:   &completed,
		RevisionCount: revisions,
	}.Score()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d points\n\n", b.Total)
	fmt.Fprintf(&sb, "- Base (%s): %d\n", category, b.Base)
	if b.OnTime {
		fmt.Fprintf(&sb, "- On time bonus: +%d\n", b.Bonus)
	} else {
		fmt.Fprintf(&sb, "- Late penalty: -%d\n", b.LatePenalty)
	}
	if b.RevisionPenalty > 0 {
		fmt.Fprintf(&sb, "- Revision penalty (%d revisions): -%d\n", revisions, b.RevisionPenalty)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD form", field)
	}
	return d, nil
}
