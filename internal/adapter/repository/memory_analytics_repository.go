package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
)

type MemoryAnalyticsRepository struct {
	mu        sync.Mutex
	merchant  []entity.MerchantAnalyticsEvent
	seen      map[string]struct{}
	telemetry []entity.TelemetryEvent
}

func NewMemoryAnalyticsRepository() *MemoryAnalyticsRepository {
	return &MemoryAnalyticsRepository{
		seen: make(map[string]struct{}),
	}
}

var _ repository.AnalyticsRepository = (*MemoryAnalyticsRepository)(nil)

func (r *MemoryAnalyticsRepository) RecordMerchantEvent(ctx context.Context, event *entity.MerchantAnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if _, dup := r.seen[event.ID]; dup {
		return nil
	}
	r.seen[event.ID] = struct{}{}
	r.merchant = append(r.merchant, *event)
	return nil
}

func (r *MemoryAnalyticsRepository) RecordTelemetry(ctx context.Context, event *entity.TelemetryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	r.telemetry = append(r.telemetry, *event)
	return nil
}

func (r *MemoryAnalyticsRepository) MerchantEvents() []entity.MerchantAnalyticsEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.MerchantAnalyticsEvent(nil), r.merchant...)
}

func (r *MemoryAnalyticsRepository) TelemetryEvents() []entity.TelemetryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.TelemetryEvent(nil), r.telemetry...)
}
