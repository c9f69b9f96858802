package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue events.
type EventDispatcher interface {
	Enqueue(event ports.StatusEventInput)
	EnqueueBatch(events []ports.StatusEventInput)
}

// EventHandler accepts Kanban moves for asynchronous processing.
type EventHandler struct {
	dispatcher EventDispatcher
}

// NewEventHandler creates an EventHandler backed by the given dispatcher.
func NewEventHandler(dispatcher EventDispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/tasks/events. The move is queued and applied with
// the caller's permissions; the response is 202.
//
// @Summary      Queue a single status move
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      statusEventRequest  true  "Status move"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req statusEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.dispatcher.Enqueue(toEventInput(req, actor))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /v1/tasks/events/batch. Moves for the same task
// are applied in submission order.
//
// @Summary      Queue a batch of status moves
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []statusEventRequest  true  "Array of status moves"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var reqs []statusEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.StatusEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toEventInput(req, actor))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

// toEventInput maps the HTTP request to the service DTO.
func toEventInput(r statusEventRequest, actor domain.Actor) ports.StatusEventInput {
	source := r.Source
	if source == "" {
		source = "api"
	}
	return ports.StatusEventInput{
		TaskID:      r.TaskID,
		Status:      r.Status,
		Timestamp:   r.Timestamp,
		CompletedOn: r.CompletedOn,
		Source:      source,
		Actor:       actor,
	}
}
