package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sellerconnect/pkg/errors"
)

// classifyFirestoreError maps a Firestore failure to a tagged AppError so
// callers branch on codes instead of error text.
func classifyFirestoreError(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.AlreadyExists:
		return errors.Conflict(resource+" already exists", err)
	case codes.InvalidArgument, codes.FailedPrecondition:
		return errors.Internal("Failed to "+action+" "+resource, err)
	default:
		return errors.Store("Failed to "+action+" "+resource, err)
	}
}
