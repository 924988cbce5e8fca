package service

import (
	"context"
	"encoding/json"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/contract"
	"ai-salesbot-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IIngestionService feeds documents into the vector store. Enqueue is the
// asynchronous path through the event bus; IngestDirect embeds and stores
// synchronously and is what the consumer (and the loader CLI) call.
type IIngestionService interface {
	Enqueue(ctx context.Context, msg *dto.PublishEmbedDocumentMessage) error
	IngestDirect(ctx context.Context, msg *dto.PublishEmbedDocumentMessage) error
}

type ingestionService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	documentRepo      contract.DocumentRepository
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewIngestionService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentRepo contract.DocumentRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		pubSub:            pubSub,
		topicName:         topicName,
		documentRepo:      documentRepo,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (s *ingestionService) Enqueue(ctx context.Context, msg *dto.PublishEmbedDocumentMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return apperror.New(apperror.KindParse, "ingest.enqueue", err)
	}
	return s.pubSub.Publish(s.topicName, message.NewMessage(uuid.NewString(), payload))
}

// IngestDirect embeds the text and stores vector plus metadata in one
// insert: a record never becomes searchable half-written.
func (s *ingestionService) IngestDirect(ctx context.Context, msg *dto.PublishEmbedDocumentMessage) error {
	vector, err := s.embeddingProvider.Generate(ctx, msg.Text)
	if err != nil {
		return err
	}

	collection := msg.Collection
	if collection == "" {
		collection = entity.CollectionKnowledge
	}

	doc := &entity.Document{
		Text:       msg.Text,
		Embedding:  vector,
		Name:       msg.Name,
		Sku:        msg.Sku,
		Price:      msg.Price,
		Stock:      msg.Stock,
		Color:      msg.Color,
		Model:      msg.Model,
		ScreenSize: msg.ScreenSize,
		ImageIds:   msg.ImageIds,
		Collection: collection,
		UserId:     msg.UserId,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return err
	}

	s.log.Info("ingest", "document stored", map[string]interface{}{
		"id":         doc.Id,
		"collection": collection,
	})
	return nil
}
