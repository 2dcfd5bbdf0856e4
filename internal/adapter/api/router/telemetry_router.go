package router

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/adapter/api/handler"
	"sellerconnect/internal/adapter/api/middleware"
)

func SetupTelemetryRouter(e *echo.Echo, identityMiddleware *middleware.IdentityMiddleware, limiter *middleware.RateLimiter) {
	telemetryHandler := handler.GetTelemetryHandler()

	telemetry := e.Group("/v1/telemetry")
	telemetry.Use(identityMiddleware.Resolve)
	if limiter != nil {
		telemetry.Use(limiter.Limit)
	}

	telemetry.POST("/events", telemetryHandler.TrackEvent)
	telemetry.POST("/matches", telemetryHandler.RecordProfileMatches)
}
