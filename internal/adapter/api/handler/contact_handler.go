package handler

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/usecase"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
	"sellerconnect/pkg/response"
)

type ContactHandler struct {
	contactUseCase *usecase.ContactUseCase
}

func NewContactHandler(contactUseCase *usecase.ContactUseCase) *ContactHandler {
	return &ContactHandler{
		contactUseCase: contactUseCase,
	}
}

type recordContactRequest struct {
	RequestID string `json:"request_id" validate:"max=128"`
}

// RecordContact is fired right before the client opens the seller's external
// channel. Tracking trouble never blocks that, so failures come back as a
// warning on a 200.
func (h *ContactHandler) RecordContact(c echo.Context) error {
	sellerID := c.Param("sellerId")
	if sellerID == "" {
		return response.Error(c, errors.BadRequest("Seller ID is required", nil))
	}

	var req recordContactRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.contactUseCase.RecordContact(c.Request().Context(), sellerID, entity.StringPtr(req.RequestID))
	if err != nil {
		logger.Warn("Contact with seller %s not recorded: %v", sellerID, err)
		return response.SuccessWithWarning(c, &usecase.ContactResult{}, err)
	}

	return response.Success(c, result)
}
