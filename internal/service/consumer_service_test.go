package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIngestion struct {
	err   error
	calls int
}

func (s *stubIngestion) Enqueue(ctx context.Context, msg *dto.PublishEmbedDocumentMessage) error {
	return nil
}

func (s *stubIngestion) IngestDirect(ctx context.Context, msg *dto.PublishEmbedDocumentMessage) error {
	s.calls++
	return s.err
}

func embedPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(&dto.PublishEmbedDocumentMessage{Text: "ผงเครื่องเทศหอมรักกัน"})
	require.NoError(t, err)
	return payload
}

func assertNacked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Nacked():
	default:
		t.Fatal("expected message to be nacked")
	}
}

func assertAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("expected message to be acked")
	}
}

func TestConsumerNacksTransientFailureThenAcksSuccess(t *testing.T) {
	stub := &stubIngestion{err: errors.New("db briefly gone")}
	cs := NewConsumerService(nil, "topic", stub, logger.NewNopLogger()).(*consumerService)
	payload := embedPayload(t)

	first := message.NewMessage("msg-1", payload)
	cs.processMessage(context.Background(), first)
	assertNacked(t, first)

	stub.err = nil
	second := message.NewMessage("msg-1", payload)
	cs.processMessage(context.Background(), second)
	assertAcked(t, second)

	assert.Empty(t, cs.attempts)
}

func TestConsumerDropsMessageAfterRepeatedFailures(t *testing.T) {
	stub := &stubIngestion{err: errors.New("invalid api key")}
	cs := NewConsumerService(nil, "topic", stub, logger.NewNopLogger()).(*consumerService)
	payload := embedPayload(t)

	for attempt := 1; attempt < maxIngestAttempts; attempt++ {
		msg := message.NewMessage("msg-1", payload)
		cs.processMessage(context.Background(), msg)
		assertNacked(t, msg)
	}

	last := message.NewMessage("msg-1", payload)
	cs.processMessage(context.Background(), last)
	assertAcked(t, last)

	assert.Equal(t, maxIngestAttempts, stub.calls)
	assert.Empty(t, cs.attempts)
}

func TestConsumerAcksMalformedPayloadWithoutIngesting(t *testing.T) {
	stub := &stubIngestion{}
	cs := NewConsumerService(nil, "topic", stub, logger.NewNopLogger()).(*consumerService)

	msg := message.NewMessage("msg-1", []byte("not json"))
	cs.processMessage(context.Background(), msg)

	assertAcked(t, msg)
	assert.Zero(t, stub.calls)
}
