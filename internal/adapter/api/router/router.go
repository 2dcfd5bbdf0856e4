package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sellerconnect/internal/adapter/api/handler"
	"sellerconnect/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, identityMiddleware *middleware.IdentityMiddleware, telemetryLimiter *middleware.RateLimiter) {
	SetupContactRouter(e, identityMiddleware)
	SetupRatingRouter(e, identityMiddleware)
	SetupPromptRouter(e, identityMiddleware)
	SetupTelemetryRouter(e, identityMiddleware, telemetryLimiter)
	SetupHealthRouter(e)
}

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
