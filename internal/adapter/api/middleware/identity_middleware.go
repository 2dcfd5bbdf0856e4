package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sellerconnect/internal/domain/service"
	"sellerconnect/internal/infrastructure/identity"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/response"
)

const AnonymousIDHeader = "X-Anonymous-Id"

// IdentityMiddleware binds a subject to every request. A signed-in user is
// keyed by their Firebase UID, everyone else by a client-held anonymous id.
type IdentityMiddleware struct {
	verifier service.TokenVerifier
}

func NewIdentityMiddleware(verifier service.TokenVerifier) *IdentityMiddleware {
	return &IdentityMiddleware{
		verifier: verifier,
	}
}

func (m *IdentityMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		var subjectID string
		if authHeader := req.Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
			}
			if m.verifier == nil {
				return response.Error(c, errors.Unauthorized("Authentication is not configured", nil))
			}

			uid, err := m.verifier.VerifyToken(req.Context(), parts[1])
			if err != nil {
				return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
			}
			subjectID = uid
			c.Set("uid", uid)
		} else {
			anonymousID := strings.TrimSpace(req.Header.Get(AnonymousIDHeader))
			if anonymousID == "" {
				anonymousID = uuid.New().String()
			}
			c.Response().Header().Set(AnonymousIDHeader, anonymousID)
			subjectID = identity.AnonymousSubject(anonymousID)
			c.Set("anonymous", true)
		}

		c.Set("subject", subjectID)
		c.SetRequest(req.WithContext(identity.WithSubject(req.Context(), subjectID)))
		return next(c)
	}
}
