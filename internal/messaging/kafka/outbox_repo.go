package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-presence/internal/events"
	"go-presence/internal/journal"
)

const (
	OutboxStatusPending = journal.PublishPending
	OutboxStatusSent    = journal.PublishSent
	OutboxStatusFailed  = journal.PublishFailed
)

const aggregateEmployee = "employee"

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

type OutboxRepository interface {
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// journalOutbox exposes the punch journal's publish columns as an outbox.
// Rows are written by the session engine, so there is no Create here.
type journalOutbox struct {
	repo  journal.Repository
	topic string
}

func NewJournalOutbox(repo journal.Repository, topic string) OutboxRepository {
	if topic == "" {
		topic = events.PunchRecordedTopic
	}
	return &journalOutbox{repo: repo, topic: topic}
}

func (o *journalOutbox) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	entries, err := o.repo.ListPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]OutboxEvent, 0, len(entries))
	for i := range entries {
		ev, err := o.toOutboxEvent(&entries[i])
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (o *journalOutbox) MarkSent(ctx context.Context, id string) error {
	return o.repo.MarkSent(ctx, id)
}

func (o *journalOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return o.repo.MarkFailed(ctx, id, reason)
}

func (o *journalOutbox) toOutboxEvent(e *journal.Entry) (OutboxEvent, error) {
	payload, err := json.Marshal(events.PunchRecordedEvent{
		EventType:  events.PunchRecordedType,
		JournalID:  e.ID.String(),
		RequestID:  e.RequestID,
		EmployeeID: e.EmployeeID,
		CompanyID:  e.CompanyID,
		Direction:  e.Direction,
		SessionID:  e.SessionID,
		Outcome:    e.Outcome,
		Message:    e.Message,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		OccurredAt: e.OccurredAt,
	})
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("encode punch event %s: %w", e.ID, err)
	}

	ev := OutboxEvent{
		ID:            e.ID.String(),
		RequestID:     e.RequestID,
		AggregateType: aggregateEmployee,
		// keyed by employee so one employee's punches stay ordered in a partition
		AggregateID: e.EmployeeID,
		EventType:   events.PunchRecordedType,
		Topic:       o.topic,
		Payload:     payload,
		Status:      e.PublishStatus,
		RetryCount:  e.RetryCount,
	}
	if e.NextRetryAt != nil {
		ev.NextRetryAt = *e.NextRetryAt
	} else {
		ev.NextRetryAt = e.CreatedAt
	}
	return ev, nil
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
