package router

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/adapter/api/handler"
	"sellerconnect/internal/adapter/api/middleware"
)

func SetupPromptRouter(e *echo.Echo, identityMiddleware *middleware.IdentityMiddleware) {
	promptHandler := handler.GetPromptHandler()

	prompts := e.Group("/v1/rating-prompts")
	prompts.Use(identityMiddleware.Resolve)

	prompts.GET("/next", promptHandler.NextPrompt)
	prompts.GET("/stream", promptHandler.StreamPrompts)
	prompts.POST("/:id/prompted", promptHandler.MarkPrompted)
	prompts.POST("/:id/dismiss", promptHandler.Dismiss)
}
