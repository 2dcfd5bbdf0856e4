package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

const (
	merchantAnalyticsCollection = "merchant_analytics"
	telemetryEventsCollection   = "telemetry_events"
)

type firestoreAnalyticsRepository struct {
	client *firestore.Client
}

func NewFirestoreAnalyticsRepository(client *firestore.Client) repository.AnalyticsRepository {
	return &firestoreAnalyticsRepository{
		client: client,
	}
}

// RecordMerchantEvent creates under the event's ID; a profile_contacted copy
// that already exists is accepted silently.
func (r *firestoreAnalyticsRepository) RecordMerchantEvent(ctx context.Context, event *entity.MerchantAnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := r.client.Collection(merchantAnalyticsCollection).Doc(event.ID).Create(ctx, event)
	err = classifyFirestoreError(err, "Merchant analytics event", "create")
	if errors.Is(err, errors.CodeConflict) {
		return nil
	}
	return err
}

func (r *firestoreAnalyticsRepository) RecordTelemetry(ctx context.Context, event *entity.TelemetryEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := r.client.Collection(telemetryEventsCollection).Doc(event.ID).Set(ctx, event)
	return classifyFirestoreError(err, "Telemetry event", "create")
}
