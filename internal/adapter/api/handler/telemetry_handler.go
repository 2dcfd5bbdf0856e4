package handler

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/usecase"
	"sellerconnect/pkg/response"
)

type TelemetryHandler struct {
	telemetryUseCase *usecase.TelemetryUseCase
}

func NewTelemetryHandler(telemetryUseCase *usecase.TelemetryUseCase) *TelemetryHandler {
	return &TelemetryHandler{
		telemetryUseCase: telemetryUseCase,
	}
}

type trackEventRequest struct {
	EventType   string            `json:"event_type"`
	Page        string            `json:"page"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type profileMatchesRequest struct {
	RequestID   string   `json:"request_id" validate:"max=128"`
	MerchantIDs []string `json:"merchant_ids" validate:"required,min=1,max=100"`
}

func (h *TelemetryHandler) TrackEvent(c echo.Context) error {
	var req trackEventRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	recorded, err := h.telemetryUseCase.Track(c.Request().Context(), usecase.TrackInput{
		EventType:   entity.TelemetryEventType(req.EventType),
		Page:        req.Page,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"recorded": recorded})
}

func (h *TelemetryHandler) RecordProfileMatches(c echo.Context) error {
	var req profileMatchesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	written, err := h.telemetryUseCase.RecordProfileMatches(c.Request().Context(), entity.StringPtr(req.RequestID), req.MerchantIDs)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"written": written})
}
