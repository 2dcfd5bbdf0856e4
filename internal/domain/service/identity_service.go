package service

import "context"

// IdentityProvider yields the stable subject identifier of the current actor,
// authenticated or anonymous.
type IdentityProvider interface {
	ResolveSubjectID(ctx context.Context) (string, error)
}

// TokenVerifier turns a bearer token into an authenticated user ID.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}
