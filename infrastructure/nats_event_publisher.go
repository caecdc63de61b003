package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"huay/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const domainEventStream = "huay_events"

// eventEnvelope wraps an event payload with routing metadata
type eventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	natsClient *NATSClient
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient) *NATSEventPublisher {
	return &NATSEventPublisher{natsClient: natsClient}
}

// Publish publishes an event to NATS on a per-type subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := eventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: "huay-core",
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := subjectFor(event.Type())
	if err := p.natsClient.Publish(context.Background(), subject, envelopeData); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")
	return nil
}

// EnsureDomainEventStream ensures the domain event stream exists with the
// per-type subjects
func (p *NATSEventPublisher) EnsureDomainEventStream() error {
	return p.natsClient.EnsureStream(domainEventStream, []string{"huay.events.*"})
}

func subjectFor(eventType events.EventType) string {
	return fmt.Sprintf("huay.events.%s", eventType)
}
