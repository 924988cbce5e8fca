package service

import (
	"context"
	"encoding/json"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// maxIngestAttempts bounds redelivery of a failing message. The gochannel
// bus redelivers on nack immediately, so a permanently-failing message
// (bad credentials, malformed metadata) would otherwise spin forever.
const maxIngestAttempts = 3

// consumerService drains the ingestion topic and embeds each document.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	ingestionService IIngestionService
	log              logger.ILogger

	// attempts tracks failures per message UUID. Only the single consume
	// goroutine touches it.
	attempts map[string]int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestionService IIngestionService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		ingestionService: ingestionService,
		log:              log,
		attempts:         make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "unmarshal failed, acking to stop retries", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	if err := cs.ingestionService.IngestDirect(ctx, &payload); err != nil {
		cs.attempts[msg.UUID]++
		if cs.attempts[msg.UUID] >= maxIngestAttempts {
			cs.log.Error("consumer", "ingest failed repeatedly, dropping message", map[string]interface{}{
				"message_id": msg.UUID,
				"attempts":   cs.attempts[msg.UUID],
				"error":      err.Error(),
			})
			delete(cs.attempts, msg.UUID)
			msg.Ack()
			return
		}
		cs.log.Error("consumer", "ingest failed", map[string]interface{}{
			"message_id": msg.UUID,
			"attempt":    cs.attempts[msg.UUID],
			"error":      err.Error(),
		})
		// Nack so the bus redelivers transient failures.
		msg.Nack()
		return
	}

	delete(cs.attempts, msg.UUID)
	msg.Ack()
}
