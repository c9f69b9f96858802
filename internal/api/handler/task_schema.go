package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// calendarDate accepts either a plain date (2006-01-02) or an RFC 3339
// timestamp.
type calendarDate struct {
	time.Time
}

func (d *calendarDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = domain.CalendarDay(t)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *calendarDate) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// --- Requests ---

type createTaskRequest struct {
	Title       string       `json:"title"       validate:"required,max=200"`
	Description string       `json:"description" validate:"max=5000"`
	Category    string       `json:"category"    validate:"required,category"`
	DueDate     calendarDate `json:"due_date"    swaggertype:"string" example:"2024-08-15"`
	Assignees   []string     `json:"assignees"`
}

type updateTaskRequest struct {
	Title       *string       `json:"title"       validate:"omitempty,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=5000"`
	Category    *string       `json:"category"    validate:"omitempty,category"`
	DueDate     *calendarDate `json:"due_date"    swaggertype:"string" example:"2024-08-15"`
	Assignees   []string      `json:"assignees"`
}

type changeStatusRequest struct {
	Status      string        `json:"status"       validate:"required"`
	CompletedOn *calendarDate `json:"completed_on" swaggertype:"string" example:"2024-08-14"`
}

type revisionRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// --- Responses ---

type taskResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	Category      domain.Category       `json:"category"`
	Status        domain.TaskStatus     `json:"status"`
	DueDate       time.Time             `json:"due_date"`
	CompletedOn   *time.Time            `json:"completed_on,omitempty"`
	Assignees     []string              `json:"assignees"`
	RevisionCount int                   `json:"revision_count"`
	Revisions     []domain.Revision     `json:"revisions"`
	Comments      []domain.Comment      `json:"comments"`
	Score         *domain.ScoreSnapshot `json:"score,omitempty"`
	ReviewedBy    string                `json:"reviewed_by,omitempty"`
	CreatedBy     string                `json:"created_by"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type taskDetailResponse struct {
	taskResponse
	Breakdown  *domain.ScoreBreakdown `json:"breakdown,omitempty"`
	ScoreError string                 `json:"score_error,omitempty"`
}

type listTasksResponse struct {
	Data       []taskResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type boardColumnResponse struct {
	Status domain.TaskStatus `json:"status"`
	Count  int               `json:"count"`
	Tasks  []taskResponse    `json:"tasks"`
}

type reportRowResponse struct {
	TaskID        string            `json:"task_id"`
	EmployeeID    string            `json:"employee_id"`
	EmployeeName  string            `json:"employee_name"`
	TaskTitle     string            `json:"task_title"`
	Category      domain.Category   `json:"category"`
	Deadline      time.Time         `json:"deadline"`
	CompletedOn   *time.Time        `json:"completed_on,omitempty"`
	Status        domain.TaskStatus `json:"status"`
	RevisionCount int               `json:"revision_count"`
	Score         *int              `json:"score,omitempty"`
	Reviewer      string            `json:"reviewer,omitempty"`
	AssessedAt    *time.Time        `json:"assessed_at,omitempty"`
}

// --- Mappers ---

func toTaskResponse(t *domain.Task) taskResponse {
	assignees := t.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	revisions := t.Revisions
	if revisions == nil {
		revisions = []domain.Revision{}
	}
	comments := t.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	return taskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Category:      t.Category,
		Status:        t.Status,
		DueDate:       t.DueDate,
		CompletedOn:   t.CompletedOn,
		Assignees:     assignees,
		RevisionCount: len(t.Revisions),
		Revisions:     revisions,
		Comments:      comments,
		Score:         t.Score,
		ReviewedBy:    t.ReviewedBy,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTaskDetailResponse(d *ports.TaskDetail) taskDetailResponse {
	return taskDetailResponse{
		taskResponse: toTaskResponse(d.Task),
		Breakdown:    d.Breakdown,
		ScoreError:   d.ScoreError,
	}
}

func toReportRowResponse(r ports.ReportRow) reportRowResponse {
	return reportRowResponse{
		TaskID:        r.TaskID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		TaskTitle:     r.TaskTitle,
		Category:      r.Category,
		Deadline:      r.Deadline,
		CompletedOn:   r.CompletedOn,
		Status:        r.Status,
		RevisionCount: r.RevisionCount,
		Score:         r.Score,
		Reviewer:      r.Reviewer,
		AssessedAt:    r.AssessedAt,
	}
}
