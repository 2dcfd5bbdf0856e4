package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/infrastructure/identity"
	"sellerconnect/pkg/errors"
)

func TestRecordContactIsIdempotent(t *testing.T) {
	f := newFixture()
	uc := f.contactUseCase()

	first, err := uc.RecordContact(as("u1"), "s1", ptr("r1"))
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, t0, first.Interaction.ContactedAt)
	assert.False(t, first.Interaction.RatingPrompted)
	assert.False(t, first.Interaction.RatingCompleted)

	f.clock.Advance(time.Minute)
	second, err := uc.RecordContact(as("u1"), "s1", ptr("r1"))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.Suppressed)
	assert.Equal(t, first.Interaction.ID, second.Interaction.ID)
	assert.Equal(t, t0, second.Interaction.ContactedAt)

	assert.Equal(t, 1, f.contacts.Count())
	assert.Len(t, f.analytics.MerchantEvents(), 1)
}

func TestRecordContactRepeatWithinWindowIsSuppressed(t *testing.T) {
	f := newFixture()
	uc := f.contactUseCase()

	_, err := uc.RecordContact(as("u1"), "s1", nil)
	require.NoError(t, err)

	repeat, err := uc.RecordContact(as("u1"), "s1", nil)
	require.NoError(t, err)
	assert.True(t, repeat.Suppressed)
	assert.Equal(t, 1, f.contacts.Count())
}

func TestRecordContactRequestGrouping(t *testing.T) {
	f := newFixture()
	uc := f.contactUseCase()

	_, err := uc.RecordContact(as("u1"), "s1", nil)
	require.NoError(t, err)
	_, err = uc.RecordContact(as("u1"), "s1", ptr("r1"))
	require.NoError(t, err)
	_, err = uc.RecordContact(as("u1"), "s1", ptr("r2"))
	require.NoError(t, err)
	_, err = uc.RecordContact(as("u2"), "s1", nil)
	require.NoError(t, err)

	assert.Equal(t, 4, f.contacts.Count())
}

func TestRecordContactMirrorsAnalytics(t *testing.T) {
	f := newFixture()

	_, err := f.contactUseCase().RecordContact(as("u1"), "s1", ptr("r1"))
	require.NoError(t, err)

	events := f.analytics.MerchantEvents()
	require.Len(t, events, 1)
	assert.Equal(t, entity.MerchantEventProfileContacted, events[0].EventType)
	assert.Equal(t, "s1", events[0].MerchantID)
	assert.Equal(t, "u1", events[0].SubjectID)
	assert.Equal(t, "r1", *events[0].RequestID)
}

func TestRecordContactWithoutIdentity(t *testing.T) {
	f := newFixture()

	_, err := f.contactUseCase().RecordContact(context.Background(), "s1", nil)

	assert.True(t, errors.Is(err, errors.CodeIdentityUnavailable))
	assert.Equal(t, 0, f.contacts.Count())
}

func TestRecordContactAnalyticsFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	uc := NewContactUseCase(f.contacts, failingAnalyticsRepo{err: errors.Store("sink down", nil)},
		identity.NewContextProvider(), f.deduper, f.clock, 2*time.Second)

	result, err := uc.RecordContact(as("u1"), "s1", ptr("r1"))

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 1, f.contacts.Count())
}

func TestRecordContactConflictIsRecovered(t *testing.T) {
	f := newFixture()
	winner := f.seedContact("u1", "s1", ptr("r1"), t0.Add(-time.Second))
	repo := &flakyContactRepo{MemoryContactRepository: f.contacts, hideNextFind: true}
	uc := NewContactUseCase(repo, f.analytics, identity.NewContextProvider(), f.deduper, f.clock, 2*time.Second)

	result, err := uc.RecordContact(as("u1"), "s1", ptr("r1"))

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, winner.ID, result.Interaction.ID)
	assert.Equal(t, winner.ContactedAt, result.Interaction.ContactedAt)
	assert.Equal(t, 1, f.contacts.Count())
	assert.Empty(t, f.analytics.MerchantEvents())
}

func TestRecordContactStoreFailure(t *testing.T) {
	f := newFixture()
	repo := &flakyContactRepo{MemoryContactRepository: f.contacts, findErr: errors.Store("unavailable", nil)}
	uc := NewContactUseCase(repo, f.analytics, identity.NewContextProvider(), f.deduper, f.clock, 2*time.Second)

	_, err := uc.RecordContact(as("u1"), "s1", nil)

	assert.True(t, errors.Is(err, errors.CodeStore))
}

func TestRecordContactRetryAfterStoreFailureIsNotSuppressed(t *testing.T) {
	f := newFixture()
	repo := &flakyContactRepo{MemoryContactRepository: f.contacts, findErr: errors.Store("unavailable", nil)}
	uc := NewContactUseCase(repo, f.analytics, identity.NewContextProvider(), f.deduper, f.clock, 2*time.Second)

	_, err := uc.RecordContact(as("u1"), "s1", nil)
	require.True(t, errors.Is(err, errors.CodeStore))

	repo.findErr = nil
	f.clock.Advance(100 * time.Millisecond)
	result, err := uc.RecordContact(as("u1"), "s1", nil)

	require.NoError(t, err)
	assert.False(t, result.Suppressed)
	assert.True(t, result.Created)
	assert.Equal(t, 1, f.contacts.Count())
}
