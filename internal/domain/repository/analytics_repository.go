package repository

import (
	"context"

	"sellerconnect/internal/domain/entity"
)

// AnalyticsRepository is a write-only sink. Writes are best-effort and callers
// never roll back primary records when it fails.
type AnalyticsRepository interface {
	RecordMerchantEvent(ctx context.Context, event *entity.MerchantAnalyticsEvent) error
	RecordTelemetry(ctx context.Context, event *entity.TelemetryEvent) error
}
