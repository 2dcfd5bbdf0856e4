package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/internal/domain/service"
	"sellerconnect/internal/infrastructure/metrics"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
)

type RatingUseCase struct {
	ratingRepo  repository.SellerRatingRepository
	contactRepo repository.ContactInteractionRepository
	identity    service.IdentityProvider
	clock       clock.Clock
	validate    *validator.Validate
}

func NewRatingUseCase(
	ratingRepo repository.SellerRatingRepository,
	contactRepo repository.ContactInteractionRepository,
	identity service.IdentityProvider,
	clk clock.Clock,
) *RatingUseCase {
	return &RatingUseCase{
		ratingRepo:  ratingRepo,
		contactRepo: contactRepo,
		identity:    identity,
		clock:       clk,
		validate:    validator.New(),
	}
}

type SubmitRatingInput struct {
	SellerID   string  `validate:"required"`
	RequestID  *string `validate:"omitempty,min=1"`
	Rating     int     `validate:"min=1,max=5"`
	ReviewText *string `validate:"omitempty,max=500"`
}

func (uc *RatingUseCase) GetStatus(ctx context.Context, sellerID string, requestID *string) (*entity.RatingStatus, error) {
	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return nil, errors.IdentityUnavailable(err)
	}
	key := entity.NewTupleKey(subjectID, sellerID, requestID)

	contact, err := uc.findContact(ctx, key)
	if err != nil {
		return nil, err
	}
	rating, err := uc.findRating(ctx, key)
	if err != nil {
		return nil, err
	}

	status := entity.DeriveRatingStatus(contact != nil, rating)
	return &status, nil
}

// SubmitRating creates the tuple's rating or updates the active one in place.
// The contact is re-read from the store on every call.
func (uc *RatingUseCase) SubmitRating(ctx context.Context, input SubmitRatingInput) (*entity.SellerRating, error) {
	if input.ReviewText != nil && *input.ReviewText == "" {
		input.ReviewText = nil
	}
	if err := uc.validate.Struct(input); err != nil {
		return nil, errors.Validation("Invalid rating input", err)
	}

	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return nil, errors.IdentityUnavailable(err)
	}
	key := entity.NewTupleKey(subjectID, input.SellerID, input.RequestID)

	contact, err := uc.findContact(ctx, key)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, errors.NotContacted()
	}

	rating, err := uc.findRating(ctx, key)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if rating == nil {
		rating = entity.NewSellerRating(key, input.Rating, input.ReviewText, now)
		err := uc.ratingRepo.Create(ctx, rating)
		switch {
		case err == nil:
			metrics.RatingTransitionsTotal.WithLabelValues("eligible_to_rated").Inc()
			uc.setRatingCompleted(ctx, key, true)
			return rating, nil
		case !errors.Is(err, errors.CodeConflict):
			return nil, errors.Store("Failed to save rating", err)
		}

		logger.Info("Rating conflict recovered: subject=%s seller=%s request=%s", subjectID, input.SellerID, key.RequestKey())
		if rating, err = uc.findRating(ctx, key); err != nil {
			return nil, err
		}
		if rating == nil {
			return nil, errors.Store("Rating disappeared after conflict", nil)
		}
	}

	if rating.IsCancelled {
		return nil, errors.RatingCancelled()
	}

	rating.Rating = input.Rating
	rating.ReviewText = input.ReviewText
	rating.UpdatedAt = now
	if err := uc.ratingRepo.Update(ctx, rating); err != nil {
		return nil, errors.Store("Failed to update rating", err)
	}
	metrics.RatingTransitionsTotal.WithLabelValues("rated_to_rated").Inc()
	uc.setRatingCompleted(ctx, key, true)

	return rating, nil
}

// CancelRating is terminal: the tuple can never be rated again.
func (uc *RatingUseCase) CancelRating(ctx context.Context, sellerID string, requestID *string) (*entity.SellerRating, error) {
	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return nil, errors.IdentityUnavailable(err)
	}
	key := entity.NewTupleKey(subjectID, sellerID, requestID)

	rating, err := uc.findRating(ctx, key)
	if err != nil {
		return nil, err
	}
	switch {
	case rating == nil:
		return nil, errors.NoRatingFound()
	case rating.IsCancelled:
		return nil, errors.AlreadyCancelled()
	case !rating.CanBeCancelled:
		return nil, errors.NotCancellable()
	}

	rating.IsCancelled = true
	rating.CanBeCancelled = false
	rating.UpdatedAt = uc.clock.Now()
	if err := uc.ratingRepo.Update(ctx, rating); err != nil {
		return nil, errors.Store("Failed to cancel rating", err)
	}
	metrics.RatingTransitionsTotal.WithLabelValues("rated_to_cancelled").Inc()

	uc.setRatingCompleted(ctx, key, false)
	return rating, nil
}

// setRatingCompleted syncs the contact flag for request-scoped tuples only.
// Failures are logged and never reach the caller.
func (uc *RatingUseCase) setRatingCompleted(ctx context.Context, key entity.TupleKey, completed bool) {
	if !key.HasRequest() {
		return
	}
	if err := uc.contactRepo.SetRatingCompleted(ctx, key, completed); err != nil {
		logger.LogTrackingError("rating_completed", key.String(), err)
	}
}

func (uc *RatingUseCase) findContact(ctx context.Context, key entity.TupleKey) (*entity.ContactInteraction, error) {
	contact, err := uc.contactRepo.FindByTuple(ctx, key)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, nil
		}
		return nil, errors.Store("Failed to look up contact", err)
	}
	return contact, nil
}

func (uc *RatingUseCase) findRating(ctx context.Context, key entity.TupleKey) (*entity.SellerRating, error) {
	rating, err := uc.ratingRepo.FindByTuple(ctx, key)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, nil
		}
		return nil, errors.Store("Failed to look up rating", err)
	}
	return rating, nil
}
