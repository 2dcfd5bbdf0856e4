package router

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/adapter/api/handler"
	"sellerconnect/internal/adapter/api/middleware"
)

func SetupRatingRouter(e *echo.Echo, identityMiddleware *middleware.IdentityMiddleware) {
	ratingHandler := handler.GetRatingHandler()

	ratings := e.Group("/v1/sellers/:sellerId/rating")
	ratings.Use(identityMiddleware.Resolve)

	ratings.GET("", ratingHandler.GetStatus)
	ratings.PUT("", ratingHandler.SubmitRating)
	ratings.POST("/cancel", ratingHandler.CancelRating)
}
