package usecase

import (
	"context"
	"time"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/internal/domain/service"
	"sellerconnect/internal/infrastructure/metrics"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
)

// PromptPolicy bounds the prompt window and decides whether a contact whose
// rating was cancelled may be prompted again.
type PromptPolicy struct {
	MinAge          time.Duration
	MaxAge          time.Duration
	ReopenCancelled bool
}

func DefaultPromptPolicy() PromptPolicy {
	return PromptPolicy{
		MinAge:          24 * time.Hour,
		MaxAge:          48 * time.Hour,
		ReopenCancelled: true,
	}
}

type PromptUseCase struct {
	contactRepo   repository.ContactInteractionRepository
	ratingRepo    repository.SellerRatingRepository
	dismissalRepo repository.PromptDismissalRepository
	identity      service.IdentityProvider
	clock         clock.Clock
	policy        PromptPolicy
}

func NewPromptUseCase(
	contactRepo repository.ContactInteractionRepository,
	ratingRepo repository.SellerRatingRepository,
	dismissalRepo repository.PromptDismissalRepository,
	identity service.IdentityProvider,
	clk clock.Clock,
	policy PromptPolicy,
) *PromptUseCase {
	return &PromptUseCase{
		contactRepo:   contactRepo,
		ratingRepo:    ratingRepo,
		dismissalRepo: dismissalRepo,
		identity:      identity,
		clock:         clk,
		policy:        policy,
	}
}

// FindPromptCandidates returns the subject's contacts made in
// [now-MaxAge, now-MinAge) that were neither prompted nor rated, oldest first.
func (uc *PromptUseCase) FindPromptCandidates(ctx context.Context, subjectID string, now time.Time) ([]*entity.ContactInteraction, error) {
	from := now.Add(-uc.policy.MaxAge)
	to := now.Add(-uc.policy.MinAge)

	candidates, err := uc.contactRepo.FindPromptCandidates(ctx, subjectID, from, to)
	if err != nil {
		return nil, err
	}
	if uc.policy.ReopenCancelled {
		return candidates, nil
	}

	kept := candidates[:0]
	for _, c := range candidates {
		rating, err := uc.ratingRepo.FindByTuple(ctx, c.Key())
		if err != nil && !errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
		if rating != nil && rating.IsCancelled {
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

// NextPrompt returns the single prompt to show this session, or nil. Any
// failure means no prompt this cycle.
func (uc *PromptUseCase) NextPrompt(ctx context.Context, sessionID string) *entity.ContactInteraction {
	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		metrics.PromptsServedTotal.WithLabelValues("error").Inc()
		return nil
	}

	candidates, err := uc.FindPromptCandidates(ctx, subjectID, uc.clock.Now())
	if err != nil {
		logger.Warn("Prompt candidate lookup failed for %s: %v", subjectID, err)
		metrics.PromptsServedTotal.WithLabelValues("error").Inc()
		return nil
	}

	dismissed := map[string]struct{}{}
	if sessionID != "" {
		if dismissed, err = uc.dismissalRepo.DismissedIDs(ctx, sessionID); err != nil {
			logger.Warn("Prompt dismissal lookup failed for session %s: %v", sessionID, err)
			metrics.PromptsServedTotal.WithLabelValues("error").Inc()
			return nil
		}
	}

	for _, c := range candidates {
		if _, skip := dismissed[c.ID]; skip {
			continue
		}
		metrics.PromptsServedTotal.WithLabelValues("prompt").Inc()
		return c
	}

	metrics.PromptsServedTotal.WithLabelValues("none").Inc()
	return nil
}

// MarkPrompted uses up the nudge for a contact owned by the current subject.
func (uc *PromptUseCase) MarkPrompted(ctx context.Context, contactID string) error {
	contact, err := uc.ownedContact(ctx, contactID)
	if err != nil {
		return err
	}
	if contact.RatingPrompted {
		return nil
	}
	if err := uc.contactRepo.MarkPrompted(ctx, contactID); err != nil {
		return errors.Store("Failed to mark prompt as shown", err)
	}
	return nil
}

// Dismiss hides the prompt for the session right away and then marks it
// prompted. Either write alone is enough to keep it from coming back.
func (uc *PromptUseCase) Dismiss(ctx context.Context, sessionID, contactID string) error {
	contact, err := uc.ownedContact(ctx, contactID)
	if err != nil {
		return err
	}

	var dismissErr error
	if sessionID != "" {
		if dismissErr = uc.dismissalRepo.Dismiss(ctx, sessionID, contactID); dismissErr != nil {
			logger.Warn("Failed to record dismissal of %s for session %s: %v", contactID, sessionID, dismissErr)
		}
	}

	if contact.RatingPrompted {
		return nil
	}
	if err := uc.contactRepo.MarkPrompted(ctx, contactID); err != nil {
		if sessionID != "" && dismissErr == nil {
			logger.Warn("Failed to mark %s prompted after dismissal: %v", contactID, err)
			return nil
		}
		return errors.Store("Failed to dismiss prompt", err)
	}
	return nil
}

// WatchPrompts polls NextPrompt every interval and calls notify whenever the
// prompt to show changes. A prompt going away is reported as notify(nil).
// It returns when ctx ends or notify fails.
func (uc *PromptUseCase) WatchPrompts(ctx context.Context, sessionID string, interval time.Duration, notify func(*entity.ContactInteraction) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastID := ""
	check := func() error {
		prompt := uc.NextPrompt(ctx, sessionID)
		if prompt == nil {
			if lastID == "" {
				return nil
			}
			lastID = ""
			return notify(nil)
		}
		if prompt.ID == lastID {
			return nil
		}
		lastID = prompt.ID
		return notify(prompt)
	}

	if err := check(); err != nil {
		return err
	}
	for {
		select {
		case <-ticker.C:
			if err := check(); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (uc *PromptUseCase) ownedContact(ctx context.Context, contactID string) (*entity.ContactInteraction, error) {
	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return nil, errors.IdentityUnavailable(err)
	}

	contact, err := uc.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NotFound("Rating prompt", err)
		}
		return nil, errors.Store("Failed to load rating prompt", err)
	}
	if contact.SubjectID != subjectID {
		return nil, errors.NotFound("Rating prompt", nil)
	}
	return contact, nil
}
