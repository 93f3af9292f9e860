// Package kafka publishes audit events to a Kafka topic. Compliance and
// security events about content deletion are the main tenants; downstream
// consumers own retention.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"qna/internal/audit"
)

// Publisher produces audit events as JSON records keyed by actor ID so a
// user's trail stays ordered within a partition.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// payload is the wire form of an audit event.
type payload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	ActorID     string `json:"actor_id,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
	Action      string `json:"action"`
	Reason      string `json:"reason,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// New connects to the brokers and ensures the topic exists. Single
// partition is enough for an audit trail; scale out by reconfiguring the
// topic, not this publisher.
func New(ctx context.Context, brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopics(ctx, 1, 1, nil, topic); err != nil {
		// Topic may already exist; only fail on transport errors.
		client.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}

	return &Publisher{client: client, topic: topic}, nil
}

// Emit synchronously produces the event. Callers on the deletion path
// treat a failure as fatal for the operation's audit obligation.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	body := payload{
		ID:          uuid.NewString(),
		Category:    string(event.Category),
		Timestamp:   event.Timestamp.Format(time.RFC3339Nano),
		ContentType: event.ContentType,
		Action:      event.Action,
		Reason:      event.Reason,
		RequestID:   event.RequestID,
	}
	if !event.ActorID.IsNil() {
		body.ActorID = event.ActorID.String()
	}
	if event.ContentID != uuid.Nil {
		body.ContentID = event.ContentID.String()
	}

	value, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(body.ActorID),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
