package usecase

import (
	"context"
	"time"

	adapterrepo "sellerconnect/internal/adapter/repository"
	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/infrastructure/dedup"
	"sellerconnect/internal/infrastructure/identity"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/errors"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	clock      *clock.Fake
	deduper    *dedup.Deduper
	contacts   *adapterrepo.MemoryContactRepository
	ratings    *adapterrepo.MemoryRatingRepository
	analytics  *adapterrepo.MemoryAnalyticsRepository
	dismissals *adapterrepo.MemoryDismissalRepository
}

func newFixture() *fixture {
	fake := clock.NewFake(t0)
	return &fixture{
		clock:      fake,
		deduper:    dedup.NewDeduper(fake),
		contacts:   adapterrepo.NewMemoryContactRepository(),
		ratings:    adapterrepo.NewMemoryRatingRepository(),
		analytics:  adapterrepo.NewMemoryAnalyticsRepository(),
		dismissals: adapterrepo.NewMemoryDismissalRepository(),
	}
}

func (f *fixture) contactUseCase() *ContactUseCase {
	return NewContactUseCase(f.contacts, f.analytics, identity.NewContextProvider(), f.deduper, f.clock, 2*time.Second)
}

func (f *fixture) ratingUseCase() *RatingUseCase {
	return NewRatingUseCase(f.ratings, f.contacts, identity.NewContextProvider(), f.clock)
}

func (f *fixture) promptUseCase(policy PromptPolicy) *PromptUseCase {
	return NewPromptUseCase(f.contacts, f.ratings, f.dismissals, identity.NewContextProvider(), f.clock, policy)
}

func (f *fixture) telemetryUseCase() *TelemetryUseCase {
	return NewTelemetryUseCase(f.analytics, identity.NewContextProvider(), f.deduper, f.clock, TelemetryWindows{
		PageView:   2 * time.Second,
		Navigation: time.Second,
		Click:      time.Second,
	})
}

// seedContact inserts a contact directly, bypassing the deduper.
func (f *fixture) seedContact(subject, seller string, requestID *string, contactedAt time.Time) *entity.ContactInteraction {
	c := entity.NewContactInteraction(entity.NewTupleKey(subject, seller, requestID), contactedAt)
	if err := f.contacts.Create(context.Background(), c); err != nil {
		panic(err)
	}
	return c
}

func as(subject string) context.Context {
	return identity.WithSubject(context.Background(), subject)
}

func ptr(s string) *string {
	return &s
}

// flakyContactRepo injects failures around the in-memory store.
type flakyContactRepo struct {
	*adapterrepo.MemoryContactRepository
	hideNextFind     bool
	findErr          error
	setCompletedErr  error
	promptCandidates error
}

func (r *flakyContactRepo) FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.ContactInteraction, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.hideNextFind {
		r.hideNextFind = false
		return nil, errors.NotFound("Contact interaction", nil)
	}
	return r.MemoryContactRepository.FindByTuple(ctx, key)
}

func (r *flakyContactRepo) SetRatingCompleted(ctx context.Context, key entity.TupleKey, completed bool) error {
	if r.setCompletedErr != nil {
		return r.setCompletedErr
	}
	return r.MemoryContactRepository.SetRatingCompleted(ctx, key, completed)
}

func (r *flakyContactRepo) FindPromptCandidates(ctx context.Context, subjectID string, from, to time.Time) ([]*entity.ContactInteraction, error) {
	if r.promptCandidates != nil {
		return nil, r.promptCandidates
	}
	return r.MemoryContactRepository.FindPromptCandidates(ctx, subjectID, from, to)
}

type flakyRatingRepo struct {
	*adapterrepo.MemoryRatingRepository
	hideNextFind bool
}

func (r *flakyRatingRepo) FindByTuple(ctx context.Context, key entity.TupleKey) (*entity.SellerRating, error) {
	if r.hideNextFind {
		r.hideNextFind = false
		return nil, errors.NotFound("Seller rating", nil)
	}
	return r.MemoryRatingRepository.FindByTuple(ctx, key)
}

type failingAnalyticsRepo struct {
	err error
}

func (r failingAnalyticsRepo) RecordMerchantEvent(ctx context.Context, event *entity.MerchantAnalyticsEvent) error {
	return r.err
}

func (r failingAnalyticsRepo) RecordTelemetry(ctx context.Context, event *entity.TelemetryEvent) error {
	return r.err
}
