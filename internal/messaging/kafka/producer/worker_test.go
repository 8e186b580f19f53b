package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	listErr error
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(context.Context, kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, f.listErr
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failOn   map[string]error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := w.failOn[string(m.Key)]; err != nil {
			return err
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func outboxEvent(id, aggregateID string) kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            id,
		RequestID:     "req-1",
		AggregateType: "payslip",
		AggregateID:   aggregateID,
		EventType:     "payroll.payslip.approved",
		Topic:         "payroll.payslip.approved.v1",
		Payload:       []byte(`{"payslip_id":"` + aggregateID + `"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessPendingEvents(t *testing.T) {
	t.Run("publishes and marks sent", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{outboxEvent("o-1", "p-1"), outboxEvent("o-2", "p-2")}}
		writer := &fakeWriter{}

		sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Equal(t, []string{"o-1", "o-2"}, repo.sent)

		require.Len(t, writer.messages, 2)
		msg := writer.messages[0]
		assert.Equal(t, "payroll.payslip.approved.v1", msg.Topic)
		assert.Equal(t, "p-1", string(msg.Key))
		assert.Equal(t, "o-1", header(msg, "event_id"))
		assert.Equal(t, "payroll.payslip.approved", header(msg, "event_type"))
		assert.Equal(t, "req-1", header(msg, "request_id"))
	})

	t.Run("publish failure marks failed and continues", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{outboxEvent("o-1", "p-1"), outboxEvent("o-2", "p-2")}}
		writer := &fakeWriter{failOn: map[string]error{"p-1": errors.New("leader not available")}}

		sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, "leader not available", repo.failed["o-1"])
		assert.Equal(t, []string{"o-2"}, repo.sent)
	})

	t.Run("list error is returned", func(t *testing.T) {
		repo := &fakeOutboxRepo{listErr: errors.New("db down")}

		_, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())
		assert.EqualError(t, err, "db down")
	})
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := producer.ProcessOutboxEvents(ctx, &fakeOutboxRepo{}, &fakeWriter{}, zap.NewNop(), 0)
	assert.NoError(t, err)
}
