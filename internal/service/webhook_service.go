package service

import (
	"context"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/logger"
)

// IWebhookService processes Messenger page events. Signature verification
// happens upstream of this boundary; events arriving here are trusted.
type IWebhookService interface {
	HandleEvent(ctx context.Context, event *dto.WebhookEvent) error
}

// ReplySender delivers an outbound reply. Satisfied by messenger.Client.
type ReplySender interface {
	SendReply(ctx context.Context, recipientId, text string, imageIds []string) error
}

type webhookService struct {
	guardService IGuardService
	sender       ReplySender
	log          logger.ILogger
}

func NewWebhookService(
	guardService IGuardService,
	sender ReplySender,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		guardService: guardService,
		sender:       sender,
		log:          log,
	}
}

// HandleEvent walks every messaging event in the batch. One bad event
// never stops the rest: Messenger redelivers the whole batch on error, so
// per-event failures are logged and swallowed.
func (s *webhookService) HandleEvent(ctx context.Context, event *dto.WebhookEvent) error {
	for _, entry := range event.Entry {
		for _, msg := range entry.Messaging {
			s.processMessaging(ctx, &msg)
		}
	}
	return nil
}

func (s *webhookService) processMessaging(ctx context.Context, event *dto.MessagingEvent) {
	senderId := event.Sender.Id

	if event.Message != nil {
		if event.Message.IsEcho {
			s.log.Debug("webhook", "skipping echo message", map[string]interface{}{
				"sender_id": senderId,
			})
			return
		}
		if len(event.Message.Attachments) > 0 {
			types := make([]string, len(event.Message.Attachments))
			for i, a := range event.Message.Attachments {
				types[i] = a.Type
			}
			s.log.Info("webhook", "attachments received", map[string]interface{}{
				"sender_id": senderId,
				"types":     types,
			})
		}
		if event.Message.Text != "" {
			s.respond(ctx, senderId, event.Message.Text)
		}
		return
	}

	if event.Postback != nil {
		s.respond(ctx, senderId, event.Postback.Payload)
	}
}

func (s *webhookService) respond(ctx context.Context, senderId, text string) {
	rsp, err := s.guardService.Process(ctx, &dto.GuardRequest{
		Message:   text,
		SessionId: senderId,
		UserId:    senderId,
	})
	if err != nil {
		s.log.Error("webhook", "message processing failed", map[string]interface{}{
			"sender_id": senderId,
			"error":     err.Error(),
		})
		if sendErr := s.sender.SendReply(ctx, senderId, ApologyMessage, nil); sendErr != nil {
			s.log.Error("webhook", "apology send failed", map[string]interface{}{
				"sender_id": senderId,
				"error":     sendErr.Error(),
			})
		}
		return
	}

	if rsp.Reply == "" {
		return
	}
	if err := s.sender.SendReply(ctx, senderId, rsp.Reply, rsp.ImageIds); err != nil {
		s.log.Error("webhook", "reply send failed", map[string]interface{}{
			"sender_id": senderId,
			"error":     err.Error(),
		})
	}
}
