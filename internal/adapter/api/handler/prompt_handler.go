package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/usecase"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
	"sellerconnect/pkg/response"
)

const SessionIDHeader = "X-Session-Id"

type PromptHandler struct {
	promptUseCase *usecase.PromptUseCase
	interval      time.Duration
}

func NewPromptHandler(promptUseCase *usecase.PromptUseCase, interval time.Duration) *PromptHandler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &PromptHandler{
		promptUseCase: promptUseCase,
		interval:      interval,
	}
}

type promptResponse struct {
	Prompt *entity.ContactInteraction `json:"prompt"`
}

// sessionID reads the header, falling back to the query string for
// EventSource clients that cannot set headers.
func sessionID(c echo.Context) string {
	if id := c.Request().Header.Get(SessionIDHeader); id != "" {
		return id
	}
	return c.QueryParam("sessionId")
}

func (h *PromptHandler) NextPrompt(c echo.Context) error {
	prompt := h.promptUseCase.NextPrompt(c.Request().Context(), sessionID(c))
	return response.Success(c, promptResponse{Prompt: prompt})
}

// StreamPrompts pushes the current prompt as a server-sent event whenever it
// changes, until the client goes away. A cleared prompt is sent as null.
func (h *PromptHandler) StreamPrompts(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	err := h.promptUseCase.WatchPrompts(c.Request().Context(), sessionID(c), h.interval, func(prompt *entity.ContactInteraction) error {
		payload, err := json.Marshal(prompt)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "event: prompt\ndata: %s\n\n", payload); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if err != nil {
		logger.Debug("Prompt stream closed: %v", err)
	}
	return nil
}

func (h *PromptHandler) MarkPrompted(c echo.Context) error {
	contactID := c.Param("id")
	if contactID == "" {
		return response.Error(c, errors.BadRequest("Prompt ID is required", nil))
	}

	if err := h.promptUseCase.MarkPrompted(c.Request().Context(), contactID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"id": contactID})
}

func (h *PromptHandler) Dismiss(c echo.Context) error {
	contactID := c.Param("id")
	if contactID == "" {
		return response.Error(c, errors.BadRequest("Prompt ID is required", nil))
	}

	if err := h.promptUseCase.Dismiss(c.Request().Context(), sessionID(c), contactID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"id": contactID})
}
