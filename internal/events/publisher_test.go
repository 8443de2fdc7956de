package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestPublishEnquiryCreated(t *testing.T) {
	w := &mockWriter{}
	p := NewPublisher(w, "enquiry.created", zap.NewNop().Sugar())

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err := p.PublishEnquiryCreated(context.Background(), EnquiryCreated{
		EnquiryID:       "6f1c1b8e-0000-4000-8000-000000000001",
		EnquiryType:     "contact",
		StakeholderType: "investor",
		VisitorLocation: "Pune",
		CreatedAt:       created,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "6f1c1b8e-0000-4000-8000-000000000001", string(msg.Key))
	assert.Equal(t, "enquiry.created", string(msg.Headers[0].Value))

	var got EnquiryCreated
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "investor", got.StakeholderType)
	assert.Empty(t, got.SellerID)
	assert.True(t, created.Equal(got.CreatedAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEnquiryCreated_WriteError(t *testing.T) {
	p := NewPublisher(&mockWriter{err: errors.New("broker down")}, "enquiry.created", zap.NewNop().Sugar())

	err := p.PublishEnquiryCreated(context.Background(), EnquiryCreated{EnquiryID: "x"})
	assert.ErrorContains(t, err, "publish to enquiry.created: broker down")
}
