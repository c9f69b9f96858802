package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// AssistantHandler exposes the language model helpers.
type AssistantHandler struct {
	service ports.AssistantService
}

func NewAssistantHandler(service ports.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

type textRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

type translateRequest struct {
	Text     string `json:"text"     validate:"required,max=20000"`
	Language string `json:"language" validate:"required,max=50"`
}

type briefRequest struct {
	Brief string `json:"brief" validate:"required,max=20000"`
}

type chatRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

type textResponse struct {
	Result string `json:"result"`
}

type suggestionsResponse struct {
	Tasks []ports.TaskSuggestion `json:"tasks"`
}

// Summarize handles POST /v1/assistant/summarize.
//
// @Summary      Summarize text
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      textRequest  true  "Text"
// @Success      200   {object}  textResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/assistant/summarize [post]
func (h *AssistantHandler) Summarize(c echo.Context) error {
	var req textRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.service.Summarize(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, textResponse{Result: out})
}

// Translate handles POST /v1/assistant/translate.
//
// @Summary      Translate text
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      translateRequest  true  "Text and target language"
// @Success      200   {object}  textResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/assistant/translate [post]
func (h *AssistantHandler) Translate(c echo.Context) error {
	var req translateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.service.Translate(c.Request().Context(), req.Text, req.Language)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, textResponse{Result: out})
}

// SuggestTasks handles POST /v1/assistant/suggest-tasks.
//
// @Summary      Draft tasks from a client brief
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      briefRequest  true  "Brief"
// @Success      200   {object}  suggestionsResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/assistant/suggest-tasks [post]
func (h *AssistantHandler) SuggestTasks(c echo.Context) error {
	var req briefRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tasks, err := h.service.SuggestTasks(c.Request().Context(), req.Brief)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []ports.TaskSuggestion{}
	}
	return c.JSON(http.StatusOK, suggestionsResponse{Tasks: tasks})
}

// Chat handles POST /v1/assistant/chat.
//
// @Summary      Ask about performance and rankings
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Question"
// @Success      200   {object}  textResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/assistant/chat [post]
func (h *AssistantHandler) Chat(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req chatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.service.Chat(c.Request().Context(), actor, req.Query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, textResponse{Result: out})
}
