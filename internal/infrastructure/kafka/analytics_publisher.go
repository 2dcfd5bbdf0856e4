package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"sellerconnect/internal/domain/entity"
	"sellerconnect/internal/domain/repository"
	"sellerconnect/pkg/errors"
)

type Config struct {
	Broker         string
	MerchantTopic  string
	TelemetryTopic string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AnalyticsPublisher ships analytics events to Kafka instead of the document store.
type AnalyticsPublisher struct {
	merchant  messageWriter
	telemetry messageWriter
}

func newWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func NewAnalyticsPublisher(cfg Config) *AnalyticsPublisher {
	return &AnalyticsPublisher{
		merchant:  newWriter(cfg.Broker, cfg.MerchantTopic),
		telemetry: newWriter(cfg.Broker, cfg.TelemetryTopic),
	}
}

var _ repository.AnalyticsRepository = (*AnalyticsPublisher)(nil)

// RecordMerchantEvent keys by merchant so one seller's events stay ordered
// on a single partition.
func (p *AnalyticsPublisher) RecordMerchantEvent(ctx context.Context, event *entity.MerchantAnalyticsEvent) error {
	msg, err := buildMessage(event.MerchantID, string(event.EventType), event.CreatedAt, event)
	if err != nil {
		return errors.Internal("Failed to encode merchant event", err)
	}
	if err := p.merchant.WriteMessages(ctx, msg); err != nil {
		return errors.Store("Failed to publish merchant event", err)
	}
	return nil
}

func (p *AnalyticsPublisher) RecordTelemetry(ctx context.Context, event *entity.TelemetryEvent) error {
	msg, err := buildMessage(event.SubjectID, string(event.EventType), event.CreatedAt, event)
	if err != nil {
		return errors.Internal("Failed to encode telemetry event", err)
	}
	if err := p.telemetry.WriteMessages(ctx, msg); err != nil {
		return errors.Store("Failed to publish telemetry event", err)
	}
	return nil
}

func (p *AnalyticsPublisher) Close() error {
	merr := p.merchant.Close()
	terr := p.telemetry.Close()
	if merr != nil {
		return merr
	}
	return terr
}

func buildMessage(key, eventType string, at time.Time, payload interface{}) (kafka.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}
