package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/pkg/metrics"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type TaskService struct {
	tasks       ports.TaskRepository
	users       ports.UserRepository
	gate        ports.Authorizer
	leaderboard ports.LeaderboardInvalidator
	log         zerolog.Logger
	now         func() time.Time
}

func NewTaskService(
	tasks ports.TaskRepository,
	users ports.UserRepository,
	gate ports.Authorizer,
	leaderboard ports.LeaderboardInvalidator,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:       tasks,
		users:       users,
		gate:        gate,
		leaderboard: leaderboard,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a task in To-do. The due date is mandatory because scoring
// cannot judge punctuality without it.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in ports.CreateTaskInput) (*domain.Task, error) {
	if err := s.gate.Authorize(ctx, actor, domain.ActionManageTasks, nil); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, domain.ErrMissingDueDate
	}
	assignees, err := s.resolveAssignees(ctx, in.Assignees)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    category,
		Status:      domain.StatusTodo,
		DueDate:     domain.CalendarDay(in.DueDate),
		Assignees:   assignees,
		Revisions:   []domain.Revision{},
		Comments:    []domain.Comment{},
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("category", string(category)).Str("actor", actor.ID).Msg("task created")
	return task, nil
}

// Get returns a task with its breakdown when it is Completed.
func (s *TaskService) Get(ctx context.Context, id string) (*ports.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail(task), nil
}

func detail(task *domain.Task) *ports.TaskDetail {
	d := &ports.TaskDetail{Task: task}
	if task.Status != domain.StatusCompleted {
		return d
	}
	b, err := domain.ScoreTask(task)
	if err != nil {
		d.ScoreError = err.Error()
		return d
	}
	d.Breakdown = &b
	return d
}

func (s *TaskService) List(ctx context.Context, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	filter, err := toFilter(in.Status, in.Category, in.Assignee, in.Search)
	if err != nil {
		return nil, err
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	filter.Page = page
	filter.Limit = limit

	items, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListTasksResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func toFilter(status, category, assignee, search string) (ports.TaskFilter, error) {
	var f ports.TaskFilter
	if status != "" {
		st, err := domain.ParseStatus(status)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return f, err
		}
		f.Category = c
	}
	f.Assignee = assignee
	f.Search = strings.TrimSpace(search)
	return f, nil
}

// Board groups every task by status in column order.
func (s *TaskService) Board(ctx context.Context) ([]ports.BoardColumn, error) {
	all, err := s.tasks.Find(ctx, ports.TaskFilter{})
	if err != nil {
		return nil, err
	}

	byStatus := make(map[domain.TaskStatus][]domain.Task, len(domain.Statuses))
	for _, t := range all {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	columns := make([]ports.BoardColumn, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		tasks := byStatus[st]
		if tasks == nil {
			tasks = []domain.Task{}
		}
		columns = append(columns, ports.BoardColumn{Status: st, Tasks: tasks})
	}
	return columns, nil
}

// Update edits the descriptive fields. On a Completed task the frozen score
// snapshot is left alone; only Reevaluate replaces it.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateTaskInput) (*domain.Task, error) {
	if err := s.gate.Authorize(ctx, actor, domain.ActionManageTasks, nil); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Category != nil {
		c, err := domain.ParseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		task.Category = c
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			return nil, domain.ErrMissingDueDate
		}
		task.DueDate = domain.CalendarDay(*in.DueDate)
	}
	if in.Assignees != nil {
		assignees, err := s.resolveAssignees(ctx, in.Assignees)
		if err != nil {
			return nil, err
		}
		task.Assignees = assignees
	}
	task.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.leaderboard.Invalidate(ctx)

	s.log.Info().Str("task_id", id).Str("actor", actor.ID).Msg("task updated")
	return task, nil
}

// ChangeStatus moves a task along the Kanban state machine. Assignees may move
// their own tasks; anyone else needs manage_tasks. Entering Completed is a
// review decision and additionally needs validate_reports; it freezes the
// score snapshot.
func (s *TaskService) ChangeStatus(ctx context.Context, actor domain.Actor, in ports.ChangeStatusInput) (*domain.Task, error) {
	next, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignee(actor.ID) {
		if err := s.gate.Authorize(ctx, actor, domain.ActionManageTasks, nil); err != nil {
			return nil, err
		}
	}
	if !task.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("change status: %w (from %s to %s)", domain.ErrInvalidTransition, task.Status, next)
	}

	now := s.now()
	prev := task.Status
	if next == domain.StatusCompleted {
		if err := s.gate.Authorize(ctx, actor, domain.ActionValidateReports, nil); err != nil {
			return nil, err
		}
		completed := now
		if in.CompletedOn != nil && !in.CompletedOn.IsZero() {
			completed = domain.CalendarDay(*in.CompletedOn)
		}
		task.CompletedOn = &completed
		task.ReviewedBy = actor.ID
		if err := task.Freeze(now); err != nil {
			return nil, fmt.Errorf("change status: %w", err)
		}
	}
	task.Status = next
	task.UpdatedAt = now

	if err := s.tasks.UpdateStatus(ctx, task, prev); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}

	if next == domain.StatusCompleted {
		metrics.TasksCompletedTotal.WithLabelValues(string(task.Category)).Inc()
	}
	s.leaderboard.Invalidate(ctx)

	s.log.Info().
		Str("task_id", task.ID).
		Str("from", string(prev)).
		Str("to", string(next)).
		Str("actor", actor.ID).
		Msg("task status changed")
	return task, nil
}

// RequestRevision sends an In Review task back to In Progress and records the
// revision. Revisions beyond the allowance cost points once completed.
func (s *TaskService) RequestRevision(ctx context.Context, actor domain.Actor, id, note string) (*domain.Task, error) {
	if err := s.gate.Authorize(ctx, actor, domain.ActionValidateReports, nil); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusInReview {
		return nil, fmt.Errorf("request revision: %w (from %s)", domain.ErrInvalidTransition, task.Status)
	}

	rev := domain.Revision{
		ID:          uuid.NewString(),
		Note:        strings.TrimSpace(note),
		RequestedBy: actor.ID,
		CreatedAt:   s.now(),
	}
	if err := s.tasks.AppendRevision(ctx, id, rev, domain.StatusInReview, domain.StatusInProgress); err != nil {
		return nil, fmt.Errorf("request revision: %w", err)
	}

	task.Revisions = append(task.Revisions, rev)
	task.Status = domain.StatusInProgress
	task.UpdatedAt = rev.CreatedAt
	s.leaderboard.Invalidate(ctx)

	s.log.Info().Str("task_id", id).Int("revisions", len(task.Revisions)).Str("actor", actor.ID).Msg("revision requested")
	return task, nil
}

// Reevaluate re-scores a Completed task from its current fields, keeping the
// original completion date.
func (s *TaskService) Reevaluate(ctx context.Context, actor domain.Actor, id string) (*ports.TaskDetail, error) {
	if err := s.gate.Authorize(ctx, actor, domain.ActionValidateReports, nil); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusCompleted {
		return nil, domain.ErrNotCompleted
	}

	now := s.now()
	var before int
	if task.Score != nil {
		before = task.Score.Breakdown.Total
	}
	if err := task.Freeze(now); err != nil {
		return nil, fmt.Errorf("reevaluate: %w", err)
	}
	task.ReviewedBy = actor.ID
	task.UpdatedAt = now

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("reevaluate: %w", err)
	}
	s.leaderboard.Invalidate(ctx)

	s.log.Info().
		Str("task_id", id).
		Int("before", before).
		Int("after", task.Score.Breakdown.Total).
		Str("actor", actor.ID).
		Msg("task re-evaluated")
	return detail(task), nil
}

// AddComment is open to every user with an assigned role.
func (s *TaskService) AddComment(ctx context.Context, actor domain.Actor, id, body string) (*domain.Comment, error) {
	if actor.Role.IsUnassigned() || !actor.Role.Valid() {
		return nil, fmt.Errorf("%w: comment", domain.ErrPermissionDenied)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is empty", domain.ErrInvalidInput)
	}

	c := domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  actor.ID,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.tasks.AppendComment(ctx, id, c); err != nil {
		return nil, err
	}
	s.leaderboard.Invalidate(ctx)
	return &c, nil
}

func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.gate.Authorize(ctx, actor, domain.ActionManageTasks, nil); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.leaderboard.Invalidate(ctx)

	s.log.Info().Str("task_id", id).Str("actor", actor.ID).Msg("task deleted")
	return nil
}

// Report produces one row per assignee of every matching task. Assignees that
// no longer resolve to a user keep their id with an empty name.
func (s *TaskService) Report(ctx context.Context, in ports.ReportFilter) ([]ports.ReportRow, error) {
	filter, err := toFilter(in.Status, "", in.Assignee, "")
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	rows := make([]ports.ReportRow, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		base := ports.ReportRow{
			TaskID:        t.ID,
			TaskTitle:     t.Title,
			Category:      t.Category,
			Deadline:      t.DueDate,
			CompletedOn:   t.CompletedOn,
			Status:        t.Status,
			RevisionCount: len(t.Revisions),
			Reviewer:      names[t.ReviewedBy],
		}
		if t.Status == domain.StatusCompleted {
			if b, err := domain.ScoreTask(t); err == nil {
				total := b.Total
				base.Score = &total
			}
			if t.Score != nil {
				at := t.Score.EvaluatedAt
				base.AssessedAt = &at
			}
		}
		for _, uid := range t.Assignees {
			if in.Assignee != "" && uid != in.Assignee {
				continue
			}
			row := base
			row.EmployeeID = uid
			row.EmployeeName = names[uid]
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// resolveAssignees deduplicates ids and checks each one exists.
func (s *TaskService) resolveAssignees(ctx context.Context, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return nil, fmt.Errorf("assignee %s: %w", id, err)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
