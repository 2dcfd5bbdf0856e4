package router

import (
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/adapter/api/handler"
	"sellerconnect/internal/adapter/api/middleware"
)

func SetupContactRouter(e *echo.Echo, identityMiddleware *middleware.IdentityMiddleware) {
	contactHandler := handler.GetContactHandler()

	sellers := e.Group("/v1/sellers")
	sellers.Use(identityMiddleware.Resolve)

	sellers.POST("/:sellerId/contacts", contactHandler.RecordContact)
}
