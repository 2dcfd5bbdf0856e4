package identity

import (
	"context"
	"strings"

	"sellerconnect/internal/domain/service"
	"sellerconnect/pkg/errors"
)

const anonymousPrefix = "anon:"

type subjectKey struct{}

// WithSubject binds the resolved subject to ctx.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subjectID)
}

// AnonymousSubject namespaces a client-held pseudo-identity so it can never
// collide with an authenticated UID.
func AnonymousSubject(anonymousID string) string {
	return anonymousPrefix + anonymousID
}

func IsAnonymous(subjectID string) bool {
	return strings.HasPrefix(subjectID, anonymousPrefix)
}

// ContextProvider resolves the subject bound to the request context by the
// identity middleware.
type ContextProvider struct{}

func NewContextProvider() service.IdentityProvider {
	return ContextProvider{}
}

func (ContextProvider) ResolveSubjectID(ctx context.Context) (string, error) {
	subjectID, ok := ctx.Value(subjectKey{}).(string)
	if !ok || strings.TrimSpace(subjectID) == "" {
		return "", errors.IdentityUnavailable(nil)
	}
	return subjectID, nil
}
