package ports

import (
	"context"
	"time"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	DueDate     time.Time
	Assignees   []string
}

// UpdateTaskInput is a partial edit; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Category    *string
	DueDate     *time.Time
	Assignees   []string // nil = unchanged
}

// ChangeStatusInput moves a task to another column.
type ChangeStatusInput struct {
	TaskID      string
	Status      string
	CompletedOn *time.Time // defaults to now when entering Completed
}

// ListTasksInput carries all parameters for the list endpoint.
type ListTasksInput struct {
	Status   string
	Category string
	Assignee string
	Search   string
	Page     int
	Limit    int
}

// ListTasksResult is returned by List.
type ListTasksResult struct {
	Items      []*domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskDetail is a task together with its point breakdown. Breakdown is set
// only for Completed tasks that score; ScoreError explains a failure.
type TaskDetail struct {
	Task       *domain.Task
	Breakdown  *domain.ScoreBreakdown
	ScoreError string
}

// BoardColumn is one Kanban column.
type BoardColumn struct {
	Status domain.TaskStatus
	Tasks  []domain.Task
}

// ReportRow is one line of the detailed report: one row per assignee of
// each task.
type ReportRow struct {
	TaskID        string
	EmployeeID    string
	EmployeeName  string
	TaskTitle     string
	Category      domain.Category
	Deadline      time.Time
	CompletedOn   *time.Time
	Status        domain.TaskStatus
	RevisionCount int
	Score         *int
	Reviewer      string
	AssessedAt    *time.Time
}

// ReportFilter narrows the report.
type ReportFilter struct {
	Status   string
	Assignee string
}

// TaskService defines use-case operations for tasks. Every mutating call
// carries the acting user explicitly.
type TaskService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id string) (*TaskDetail, error)
	List(ctx context.Context, in ListTasksInput) (*ListTasksResult, error)
	Board(ctx context.Context) ([]BoardColumn, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateTaskInput) (*domain.Task, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, in ChangeStatusInput) (*domain.Task, error)
	RequestRevision(ctx context.Context, actor domain.Actor, id, note string) (*domain.Task, error)
	Reevaluate(ctx context.Context, actor domain.Actor, id string) (*TaskDetail, error)
	AddComment(ctx context.Context, actor domain.Actor, id, body string) (*domain.Comment, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
}
