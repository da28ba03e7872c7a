package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-presence/internal/bootstrap"
	"go-presence/internal/events"
	"go-presence/internal/messaging/kafka/consumer"
	"go-presence/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedReader hands out its messages, then cancels the consumer.
type scriptedReader struct {
	msgs      []kafkago.Message
	fetchErrs []error
	cancel    context.CancelFunc
	committed []kafkago.Message
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafkago.Message{}, err
	}
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

type recordedAudit struct {
	entry      bootstrap.AuditLog
	requestID  string
	employeeID string
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (a *recordingAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedAudit{
		entry:      entry,
		requestID:  contextutil.GetRequestID(ctx),
		employeeID: contextutil.GetEmployeeID(ctx),
	})
}

func punchMessage(t *testing.T, ev events.PunchRecordedEvent) kafkago.Message {
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafkago.Message{Key: []byte(ev.EmployeeID), Value: raw}
}

func TestConsumePunchRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := punchMessage(t, events.PunchRecordedEvent{
		EventType:  events.PunchRecordedType,
		JournalID:  "j-1",
		RequestID:  "req-1",
		EmployeeID: "42",
		CompanyID:  "7",
		Direction:  "clock_in",
		Outcome:    "accepted",
		OccurredAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	})
	garbage := kafkago.Message{Value: []byte("{not json")}
	foreign := punchMessage(t, events.PunchRecordedEvent{EventType: "employee_created"})

	reader := &scriptedReader{
		msgs:      []kafkago.Message{good, garbage, foreign},
		fetchErrs: []error{errors.New("temporary fetch failure")},
		cancel:    cancel,
	}
	audit := &recordingAudit{}

	done := make(chan struct{})
	go func() {
		consumer.ConsumePunchRecorded(ctx, reader, audit, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}

	require.Len(t, audit.entries, 1)
	rec := audit.entries[0]
	assert.Equal(t, "PUNCH_ACCEPTED", rec.entry.Action)
	assert.Equal(t, "req-1", rec.requestID)
	assert.Equal(t, "42", rec.employeeID)
	assert.Equal(t, "j-1", rec.entry.Meta["journal_id"])

	// undecodable and foreign messages are committed so they are not redelivered
	assert.Len(t, reader.committed, 3)
}
