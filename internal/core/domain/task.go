package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category is the priority tier of a task. It determines base points.
type Category string

const (
	CategoryLow      Category = "Low"
	CategoryMedium   Category = "Medium"
	CategoryHigh     Category = "High"
	CategoryCritical Category = "Critical"
)

// ParseCategory accepts any casing of the four tiers.
func ParseCategory(s string) (Category, error) {
	for _, c := range []Category{CategoryLow, CategoryMedium, CategoryHigh, CategoryCritical} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// TaskStatus represents the Kanban column of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "To-do"
	StatusInProgress TaskStatus = "In Progress"
	StatusInReview   TaskStatus = "In Review"
	StatusCompleted  TaskStatus = "Completed"
	StatusBlocked    TaskStatus = "Blocked"
)

// Statuses is the board column order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusInReview, StatusCompleted, StatusBlocked}

var statusAliases = map[string]TaskStatus{
	"to-do":       StatusTodo,
	"todo":        StatusTodo,
	"to_do":       StatusTodo,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"in review":   StatusInReview,
	"in_review":   StatusInReview,
	"completed":   StatusCompleted,
	"done":        StatusCompleted,
	"blocked":     StatusBlocked,
}

// ParseStatus maps a label or snake_case alias to a TaskStatus.
func ParseStatus(s string) (TaskStatus, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// validTransitions defines the allowed state machine transitions. Completed is
// terminal.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusTodo:       {StatusInProgress, StatusBlocked},
	StatusInProgress: {StatusInReview, StatusBlocked, StatusTodo},
	StatusInReview:   {StatusCompleted, StatusInProgress},
	StatusBlocked:    {StatusTodo, StatusInProgress},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Revision records a change request on a task. Only the count affects scoring.
type Revision struct {
	ID          string    `json:"id" bson:"id"`
	Note        string    `json:"note,omitempty" bson:"note,omitempty"`
	RequestedBy string    `json:"requested_by" bson:"requested_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Comment is a discussion entry on a task.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ScoreSnapshot freezes the scoring inputs at the moment a task is completed,
// together with the breakdown computed from them. Later edits to the live
// task fields do not touch it; only an explicit re-evaluation replaces it.
type ScoreSnapshot struct {
	Category      Category       `json:"category" bson:"category"`
	DueDate       time.Time      `json:"due_date" bson:"due_date"`
	CompletedOn   time.Time      `json:"completed_on" bson:"completed_on"`
	RevisionCount int            `json:"revision_count" bson:"revision_count"`
	Breakdown     ScoreBreakdown `json:"breakdown" bson:"breakdown"`
	EvaluatedAt   time.Time      `json:"evaluated_at" bson:"evaluated_at"`
}

// Task is the core aggregate root.
type Task struct {
	ID          string         `json:"id" bson:"_id"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Category    Category       `json:"category" bson:"category"`
	Status      TaskStatus     `json:"status" bson:"status"`
	DueDate     time.Time      `json:"due_date" bson:"due_date"`
	CompletedOn *time.Time     `json:"completed_on,omitempty" bson:"completed_on,omitempty"`
	Assignees   []string       `json:"assignees" bson:"assignees"`
	Revisions   []Revision     `json:"revisions" bson:"revisions"`
	Comments    []Comment      `json:"comments" bson:"comments"`
	Score       *ScoreSnapshot `json:"score,omitempty" bson:"score,omitempty"`
	ReviewedBy  string         `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	CreatedBy   string         `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsAssignee reports whether userID is among the task assignees.
func (t *Task) IsAssignee(userID string) bool {
	for _, a := range t.Assignees {
		if a == userID {
			return true
		}
	}
	return false
}

// Freeze captures the scoring inputs and computes the breakdown. It is called
// when the task enters Completed and on explicit re-evaluation.
func (t *Task) Freeze(now time.Time) error {
	if t.CompletedOn == nil {
		return ErrMissingCompletionDate
	}
	snap := ScoreSnapshot{
		Category:      t.Category,
		DueDate:       t.DueDate,
		CompletedOn:   *t.CompletedOn,
		RevisionCount: len(t.Revisions),
		EvaluatedAt:   now,
	}
	b, err := snap.Input().Score()
	if err != nil {
		return err
	}
	snap.Breakdown = b
	t.Score = &snap
	return nil
}
