package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/domain"
)

type mockKafkaWriter struct {
	mock.Mock
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockKafkaWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	event := &domain.OutboxEvent{
		ID:            "evt-1",
		AgencyID:      "agency-a",
		AggregateType: domain.AggregateTypeCreditAccount,
		AggregateID:   "acc-1",
		EventType:     domain.EventTypeCreditEntryPosted,
		Payload:       map[string]any{"amount": "150.00"},
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("keys by aggregate", func(t *testing.T) {
		w := new(mockKafkaWriter)
		pub := newKafkaPublisher(w, "ledger-events", zerolog.Nop())

		w.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 || string(msgs[0].Key) != "acc-1" {
				return false
			}
			var env envelope
			if err := json.Unmarshal(msgs[0].Value, &env); err != nil {
				return false
			}
			return env.EventType == domain.EventTypeCreditEntryPosted &&
				env.AgencyID == "agency-a" &&
				env.Payload["amount"] == "150.00"
		})).Return(nil).Once()

		require.NoError(t, pub.Publish(ctx, event))
		w.AssertExpectations(t)
	})

	t.Run("write failure", func(t *testing.T) {
		w := new(mockKafkaWriter)
		pub := newKafkaPublisher(w, "ledger-events", zerolog.Nop())
		w.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker unavailable")).Once()

		err := pub.Publish(ctx, event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker unavailable")
		w.AssertExpectations(t)
	})
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := new(mockKafkaWriter)
	w.On("Close").Return(nil).Once()

	require.NoError(t, newKafkaPublisher(w, "t", zerolog.Nop()).Close())
	w.AssertExpectations(t)
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t", zerolog.Nop())
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", zerolog.Nop())
	assert.Error(t, err)
}
