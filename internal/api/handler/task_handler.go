package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), actor, ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DueDate:     req.DueDate.Time,
		Assignees:   req.Assignees,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Get handles GET /v1/tasks/:id.
//
// @Summary      Get a task with its point breakdown
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}

// List handles GET /v1/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        category  query     string  false  "Filter by category"
// @Param        assignee  query     string  false  "Filter by assignee user id"
// @Param        search    query     string  false  "Partial title match"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  listTasksResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListTasksInput{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Assignee: c.QueryParam("assignee"),
		Search:   c.QueryParam("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	data := make([]taskResponse, 0, len(result.Items))
	for _, t := range result.Items {
		data = append(data, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, listTasksResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Board handles GET /v1/tasks/board.
//
// @Summary      Kanban board grouped by status
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   boardColumnResponse
// @Router       /v1/tasks/board [get]
func (h *TaskHandler) Board(c echo.Context) error {
	columns, err := h.service.Board(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]boardColumnResponse, 0, len(columns))
	for _, col := range columns {
		tasks := make([]taskResponse, 0, len(col.Tasks))
		for i := range col.Tasks {
			tasks = append(tasks, toTaskResponse(&col.Tasks[i]))
		}
		out = append(out, boardColumnResponse{Status: col.Status, Count: len(tasks), Tasks: tasks})
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PATCH /v1/tasks/:id.
//
// @Summary      Edit a task
// @Description  Edits never touch the frozen score of a completed task; use reevaluate for that.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DueDate:     req.DueDate.ptr(),
		Assignees:   req.Assignees,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// ChangeStatus handles POST /v1/tasks/:id/status.
//
// @Summary      Move a task to another column
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task ID"
// @Param        body  body      changeStatusRequest  true  "Target status"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req changeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.ChangeStatus(c.Request().Context(), actor, ports.ChangeStatusInput{
		TaskID:      c.Param("id"),
		Status:      req.Status,
		CompletedOn: req.CompletedOn.ptr(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// RequestRevision handles POST /v1/tasks/:id/revisions.
//
// @Summary      Send a task in review back for revision
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Task ID"
// @Param        body  body      revisionRequest  false  "Revision note"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/revisions [post]
func (h *TaskHandler) RequestRevision(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req revisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.RequestRevision(c.Request().Context(), actor, c.Param("id"), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Reevaluate handles POST /v1/tasks/:id/reevaluate.
//
// @Summary      Recompute the frozen score of a completed task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/tasks/{id}/reevaluate [post]
func (h *TaskHandler) Reevaluate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Reevaluate(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}

// AddComment handles POST /v1/tasks/:id/comments.
//
// @Summary      Comment on a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Task ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.Request().Context(), actor, c.Param("id"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// Delete handles DELETE /v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Report handles GET /v1/reports/tasks.
//
// @Summary      Detailed task report, one row per assignee
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        assignee  query     string  false  "Filter by assignee user id"
// @Param        format    query     string  false  "json (default) or csv"
// @Success      200       {array}   reportRowResponse
// @Router       /v1/reports/tasks [get]
func (h *TaskHandler) Report(c echo.Context) error {
	rows, err := h.service.Report(c.Request().Context(), ports.ReportFilter{
		Status:   c.QueryParam("status"),
		Assignee: c.QueryParam("assignee"),
	})
	if err != nil {
		return err
	}

	if c.QueryParam("format") == "csv" {
		return writeReportCSV(c, rows)
	}

	out := make([]reportRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReportRowResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

var reportHeader = []string{
	"task_id", "employee_id", "employee_name", "task_title", "category", "deadline",
	"completed_on", "status", "revision_count", "score", "reviewer", "assessed_at",
}

func writeReportCSV(c echo.Context, rows []ports.ReportRow) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="task-report.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		score := ""
		if r.Score != nil {
			score = strconv.Itoa(*r.Score)
		}
		if err := w.Write([]string{
			r.TaskID,
			r.EmployeeID,
			r.EmployeeName,
			r.TaskTitle,
			string(r.Category),
			r.Deadline.Format("2006-01-02"),
			formatDate(r.CompletedOn),
			string(r.Status),
			strconv.Itoa(r.RevisionCount),
			score,
			r.Reviewer,
			formatTimestamp(r.AssessedAt),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
