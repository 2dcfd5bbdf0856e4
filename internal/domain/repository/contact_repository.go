package repository

import (
	"context"
	"time"

	"sellerconnect/internal/domain/entity"
)

// ContactInteractionRepository fails with tagged AppErrors: NOT_FOUND when a
// record is missing, CONFLICT when Create hits an existing tuple and
// STORE_ERROR for anything transient.
type ContactInteractionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ContactInteraction, error)
	FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.ContactInteraction, error)
	Create(ctx context.Context, contact *entity.ContactInteraction) error
	SetRatingCompleted(ctx context.Context, key entity.TupleKey, completed bool) error
	MarkPrompted(ctx context.Context, id string) error
	// FindPromptCandidates returns unprompted, uncompleted contacts of the
	// subject with contactedAt in [from, to), oldest first.
	FindPromptCandidates(ctx context.Context, subjectID string, from, to time.Time) ([]*entity.ContactInteraction, error)
}
