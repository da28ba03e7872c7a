package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"go-presence/internal/bootstrap"
	"go-presence/internal/events"
	"go-presence/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumePunchRecorded writes every relayed punch into the audit log, so
// punches from all agents of a company end up in one trail.
func ConsumePunchRecorded(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.punch_recorded")
	log.Info("punch recorded consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("punch recorded consumer stopped")
				return
			}
			log.Error("fetch punch message failed", zap.Error(err))
			continue
		}

		var event events.PunchRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode punch_recorded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EventType != events.PunchRecordedType {
			log.Warn("unexpected event type, skipping", zap.String("event_type", event.EventType))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		evCtx := contextutil.WithEmployeeID(contextutil.WithRequestID(ctx, event.RequestID), event.EmployeeID)
		audit.Log(evCtx, bootstrap.AuditLog{
			Action:  "PUNCH_" + strings.ToUpper(event.Outcome),
			Message: "Punch " + event.Direction + " " + event.Outcome,
			Meta: map[string]any{
				"journal_id":  event.JournalID,
				"company_id":  event.CompanyID,
				"direction":   event.Direction,
				"session_id":  event.SessionID,
				"message":     event.Message,
				"latitude":    event.Latitude,
				"longitude":   event.Longitude,
				"occurred_at": event.OccurredAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit punch message failed", zap.Error(err))
			continue
		}

		log.Debug("punch recorded event audited",
			zap.String("journal_id", event.JournalID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
