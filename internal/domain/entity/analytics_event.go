package entity

import (
	"time"

	"github.com/google/uuid"
)

type MerchantEventType string

const (
	MerchantEventProfileMatched   MerchantEventType = "profile_matched"
	MerchantEventProfileContacted MerchantEventType = "profile_contacted"
)

// MerchantAnalyticsEvent is an append-only ledger entry consumed by seller dashboards.
type MerchantAnalyticsEvent struct {
	ID         string            `json:"id" firestore:"id"`
	MerchantID string            `json:"merchant_id" firestore:"merchantId"`
	RequestID  *string           `json:"request_id,omitempty" firestore:"requestId"`
	EventType  MerchantEventType `json:"event_type" firestore:"eventType"`
	SubjectID  string            `json:"subject_id" firestore:"subjectId"`
	CreatedAt  time.Time         `json:"created_at" firestore:"createdAt"`
}

// NewMerchantEvent builds an event. profile_contacted events get the ID derived
// from their tuple so the sink can refuse a second copy.
func NewMerchantEvent(eventType MerchantEventType, key TupleKey, now time.Time) *MerchantAnalyticsEvent {
	id := uuid.New().String()
	if eventType == MerchantEventProfileContacted {
		id = key.RecordID(string(eventType))
	}
	return &MerchantAnalyticsEvent{
		ID:         id,
		MerchantID: key.SellerID,
		RequestID:  key.RequestID,
		EventType:  eventType,
		SubjectID:  key.SubjectID,
		CreatedAt:  now,
	}
}

type TelemetryEventType string

const (
	TelemetryPageView   TelemetryEventType = "page_view"
	TelemetryNavigation TelemetryEventType = "navigation"
	TelemetryClick      TelemetryEventType = "click"
)

type TelemetryEvent struct {
	ID          string             `json:"id" firestore:"id"`
	SubjectID   string             `json:"subject_id" firestore:"subjectId"`
	EventType   TelemetryEventType `json:"event_type" firestore:"eventType"`
	Page        string             `json:"page" firestore:"page"`
	Description string             `json:"description,omitempty" firestore:"description"`
	Metadata    map[string]string  `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	CreatedAt   time.Time          `json:"created_at" firestore:"createdAt"`
}
