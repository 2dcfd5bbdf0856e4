package handler

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/usecase"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/response"
)

type RatingHandler struct {
	ratingUseCase *usecase.RatingUseCase
}

func NewRatingHandler(ratingUseCase *usecase.RatingUseCase) *RatingHandler {
	return &RatingHandler{
		ratingUseCase: ratingUseCase,
	}
}

type submitRatingRequest struct {
	RequestID  string  `json:"request_id"`
	Rating     int     `json:"rating"`
	ReviewText *string `json:"review_text"`
}

type cancelRatingRequest struct {
	RequestID string `json:"request_id"`
}

func (h *RatingHandler) GetStatus(c echo.Context) error {
	sellerID := c.Param("sellerId")
	if sellerID == "" {
		return response.Error(c, errors.BadRequest("Seller ID is required", nil))
	}

	status, err := h.ratingUseCase.GetStatus(c.Request().Context(), sellerID, entity.StringPtr(c.QueryParam("requestId")))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, status)
}

func (h *RatingHandler) SubmitRating(c echo.Context) error {
	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	rating, err := h.ratingUseCase.SubmitRating(c.Request().Context(), usecase.SubmitRatingInput{
		SellerID:   c.Param("sellerId"),
		RequestID:  entity.StringPtr(req.RequestID),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rating)
}

func (h *RatingHandler) CancelRating(c echo.Context) error {
	sellerID := c.Param("sellerId")
	if sellerID == "" {
		return response.Error(c, errors.BadRequest("Seller ID is required", nil))
	}

	var req cancelRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	rating, err := h.ratingUseCase.CancelRating(c.Request().Context(), sellerID, entity.StringPtr(req.RequestID))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rating)
}
