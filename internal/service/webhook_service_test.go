package service

import (
	"context"
	"testing"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentReply struct {
	recipientId string
	text        string
	imageIds    []string
}

type fakeSender struct {
	sent []sentReply
}

func (f *fakeSender) SendReply(ctx context.Context, recipientId, text string, imageIds []string) error {
	f.sent = append(f.sent, sentReply{recipientId, text, imageIds})
	return nil
}

type recordingGuard struct {
	response *dto.GuardResponse
	requests []*dto.GuardRequest
}

func (r *recordingGuard) Process(ctx context.Context, req *dto.GuardRequest) (*dto.GuardResponse, error) {
	r.requests = append(r.requests, req)
	return r.response, nil
}

func textEvent(senderId, text string, isEcho bool) *dto.WebhookEvent {
	return &dto.WebhookEvent{
		Object: "page",
		Entry: []dto.WebhookEntry{{
			Messaging: []dto.MessagingEvent{{
				Sender:  dto.Participant{Id: senderId},
				Message: &dto.IncomingMessage{Text: text, IsEcho: isEcho},
			}},
		}},
	}
}

func TestHandleEventRepliesWithTextAndImages(t *testing.T) {
	guard := &recordingGuard{response: &dto.GuardResponse{
		Allowed:  true,
		Reply:    "ราคา 159 บาทค่ะ",
		ImageIds: []string{"IMG_PROD_001"},
	}}
	sender := &fakeSender{}
	svc := NewWebhookService(guard, sender, logger.NewNopLogger())

	err := svc.HandleEvent(context.Background(), textEvent("user-1", "ราคาเท่าไหร่", false))
	require.NoError(t, err)

	// The sender's page-scoped id doubles as session and user id.
	require.Len(t, guard.requests, 1)
	assert.Equal(t, "user-1", guard.requests[0].SessionId)
	assert.Equal(t, "user-1", guard.requests[0].UserId)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user-1", sender.sent[0].recipientId)
	assert.Equal(t, "ราคา 159 บาทค่ะ", sender.sent[0].text)
	assert.Equal(t, []string{"IMG_PROD_001"}, sender.sent[0].imageIds)
}

func TestHandleEventSkipsEchoMessages(t *testing.T) {
	guard := &recordingGuard{response: &dto.GuardResponse{Allowed: true, Reply: "x"}}
	sender := &fakeSender{}
	svc := NewWebhookService(guard, sender, logger.NewNopLogger())

	err := svc.HandleEvent(context.Background(), textEvent("user-1", "echoed", true))
	require.NoError(t, err)

	assert.Empty(t, guard.requests)
	assert.Empty(t, sender.sent)
}

func TestHandleEventProcessesPostback(t *testing.T) {
	guard := &recordingGuard{response: &dto.GuardResponse{Allowed: true, Reply: "เมนูหลักค่ะ"}}
	sender := &fakeSender{}
	svc := NewWebhookService(guard, sender, logger.NewNopLogger())

	event := &dto.WebhookEvent{
		Object: "page",
		Entry: []dto.WebhookEntry{{
			Messaging: []dto.MessagingEvent{{
				Sender:   dto.Participant{Id: "user-2"},
				Postback: &dto.Postback{Title: "เริ่มต้น", Payload: "GET_STARTED"},
			}},
		}},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	require.Len(t, guard.requests, 1)
	assert.Equal(t, "GET_STARTED", guard.requests[0].Message)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "เมนูหลักค่ะ", sender.sent[0].text)
}
