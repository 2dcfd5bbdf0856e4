package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/internal/domain/service"
	"sellerconnect/internal/infrastructure/dedup"
	"sellerconnect/internal/infrastructure/metrics"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
)

// TelemetryWindows holds the dedup window per UI event type.
type TelemetryWindows struct {
	PageView   time.Duration
	Navigation time.Duration
	Click      time.Duration
}

func (w TelemetryWindows) For(eventType entity.TelemetryEventType) time.Duration {
	switch eventType {
	case entity.TelemetryPageView:
		return w.PageView
	case entity.TelemetryNavigation:
		return w.Navigation
	default:
		return w.Click
	}
}

type TelemetryUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	identity      service.IdentityProvider
	deduper       *dedup.Deduper
	clock         clock.Clock
	windows       TelemetryWindows
	validate      *validator.Validate
}

func NewTelemetryUseCase(
	analyticsRepo repository.AnalyticsRepository,
	identity service.IdentityProvider,
	deduper *dedup.Deduper,
	clk clock.Clock,
	windows TelemetryWindows,
) *TelemetryUseCase {
	return &TelemetryUseCase{
		analyticsRepo: analyticsRepo,
		identity:      identity,
		deduper:       deduper,
		clock:         clk,
		windows:       windows,
		validate:      validator.New(),
	}
}

type TrackInput struct {
	EventType   entity.TelemetryEventType `validate:"required,oneof=page_view navigation click"`
	Page        string                    `validate:"required,max=512"`
	Description string                    `validate:"max=512"`
	Metadata    map[string]string         `validate:"max=20"`
}

// Track records a UI event unless an identical one was accepted within the
// event type's window. It reports whether the event was recorded.
func (uc *TelemetryUseCase) Track(ctx context.Context, input TrackInput) (bool, error) {
	if err := uc.validate.Struct(input); err != nil {
		return false, errors.Validation("Invalid telemetry event", err)
	}

	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return false, errors.IdentityUnavailable(err)
	}

	key := strings.Join([]string{"telemetry", subjectID, string(input.EventType), input.Page, input.Description}, "|")
	if !uc.deduper.Gate(string(input.EventType), key, uc.windows.For(input.EventType)) {
		return false, nil
	}

	event := &entity.TelemetryEvent{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		EventType:   input.EventType,
		Page:        input.Page,
		Description: input.Description,
		Metadata:    input.Metadata,
		CreatedAt:   uc.clock.Now(),
	}
	if err := uc.analyticsRepo.RecordTelemetry(ctx, event); err != nil {
		metrics.AnalyticsWriteFailuresTotal.WithLabelValues(string(input.EventType)).Inc()
		logger.LogTrackingError(string(input.EventType), key, err)
		return false, nil
	}
	return true, nil
}

// RecordProfileMatches writes profile_matched for each merchant shown to the
// subject for requestID. It returns how many events were written.
func (uc *TelemetryUseCase) RecordProfileMatches(ctx context.Context, requestID *string, merchantIDs []string) (int, error) {
	subjectID, err := uc.identity.ResolveSubjectID(ctx)
	if err != nil {
		return 0, errors.IdentityUnavailable(err)
	}

	written := 0
	now := uc.clock.Now()
	for _, merchantID := range merchantIDs {
		if merchantID == "" {
			continue
		}
		key := entity.NewTupleKey(subjectID, merchantID, requestID)
		if !uc.deduper.Gate("profile_matched", "match|"+key.String(), uc.windows.Navigation) {
			continue
		}

		event := entity.NewMerchantEvent(entity.MerchantEventProfileMatched, key, now)
		if err := uc.analyticsRepo.RecordMerchantEvent(ctx, event); err != nil {
			metrics.AnalyticsWriteFailuresTotal.WithLabelValues(string(event.EventType)).Inc()
			logger.LogTrackingError("profile_matched", key.String(), err)
			continue
		}
		written++
	}
	return written, nil
}
