package usecase

import (
	"context"
	"time"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/internal/domain/service"
	"sellerconnect/internal/infrastructure/dedup"
	"sellerconnect/internal/infrastructure/metrics"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
)

type ContactUseCase struct {
	contactRepo   repository.ContactInteractionRepository
	analyticsRepo repository.AnalyticsRepository
	identity      service.IdentityProvider
	deduper       *dedup.Deduper
	clock         clock.Clock
	dedupWindow   time.Duration
}

func NewContactUseCase(
	contactRepo repository.ContactInteractionRepository,
	analyticsRepo repository.AnalyticsRepository,
	identity service.IdentityProvider,
	deduper *dedup.Deduper,
	clk clock.Clock,
	dedupWindow time.Duration,
) *ContactUseCase {
	return &ContactUseCase{
		contactRepo:   contactRepo,
		analyticsRepo: analyticsRepo,
		identity:      identity,
		deduper:       deduper,
		clock:         clk,
		dedupWindow:   dedupWindow,
	}
}

type ContactResult struct {
	Interaction *entity.ContactInteraction `json:"interaction,omitempty"`
	// Created is true only for the call that inserted the record.
	Created bool `json:"created"`
	// Suppressed is true when the deduper absorbed a repeated trigger.
	Suppressed bool `json:"suppressed"`
}

// RecordContact records that the current subject contacted sellerID, once per
// tuple. A repeat is a successful no-op.
func (uc *ContactUseCase) RecordContact(ctx context.Context, sellerID string, requestID *string) (*ContactResult, error) {
	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return nil, errors.IdentityUnavailable(err)
	}

	key := entity.NewTupleKey(subjectID, sellerID, requestID)
	dedupKey := "contact|" + key.String()
	if !uc.deduper.Gate("contact", dedupKey, uc.dedupWindow) {
		metrics.ContactsRecordedTotal.WithLabelValues("suppressed").Inc()
		return &ContactResult{Suppressed: true}, nil
	}

	existing, err := uc.contactRepo.FindByTuple(ctx, key)
	if err == nil {
		metrics.ContactsRecordedTotal.WithLabelValues("existing").Inc()
		return &ContactResult{Interaction: existing}, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		uc.deduper.Forget(dedupKey)
		return nil, errors.Store("Failed to look up contact", err)
	}

	contact := entity.NewContactInteraction(key, uc.clock.Now())
	if err := uc.contactRepo.Create(ctx, contact); err != nil {
		if !errors.Is(err, errors.CodeConflict) {
			uc.deduper.Forget(dedupKey)
			return nil, errors.Store("Failed to record contact", err)
		}

		// A concurrent call won the insert; its record is the one we report.
		logger.Info("Contact conflict recovered: subject=%s seller=%s request=%s", subjectID, sellerID, key.RequestKey())
		metrics.ContactsRecordedTotal.WithLabelValues("conflict_recovered").Inc()
		existing, ferr := uc.contactRepo.FindByTuple(ctx, key)
		if ferr != nil {
			return nil, errors.Store("Failed to read contact after conflict", ferr)
		}
		return &ContactResult{Interaction: existing}, nil
	}

	metrics.ContactsRecordedTotal.WithLabelValues("created").Inc()
	uc.mirrorContact(ctx, key)

	return &ContactResult{Interaction: contact, Created: true}, nil
}

// mirrorContact writes profile_contacted without affecting the contact record.
func (uc *ContactUseCase) mirrorContact(ctx context.Context, key entity.TupleKey) {
	event := entity.NewMerchantEvent(entity.MerchantEventProfileContacted, key, uc.clock.Now())
	if err := uc.analyticsRepo.RecordMerchantEvent(ctx, event); err != nil {
		metrics.AnalyticsWriteFailuresTotal.WithLabelValues(string(event.EventType)).Inc()
		logger.LogTrackingError("profile_contacted", key.String(), err)
	}
}
