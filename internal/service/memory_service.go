package service

import (
	"context"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/contract"
	"ai-salesbot-be/internal/repository/specification"
	"ai-salesbot-be/pkg/embedding"
)

// IMemoryService is the agent's long-term per-user memory: short facts the
// customer volunteered, embedded into the shared vector store under the
// memory collection.
type IMemoryService interface {
	Add(ctx context.Context, userId, text string) (*entity.Document, error)
	Search(ctx context.Context, userId, query string, topK int) ([]*contract.ScoredDocument, error)
	GetAll(ctx context.Context, userId string) ([]*entity.Document, error)
	Delete(ctx context.Context, userId string, id int64) error
}

type memoryService struct {
	documentRepo      contract.DocumentRepository
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewMemoryService(
	documentRepo contract.DocumentRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IMemoryService {
	return &memoryService{
		documentRepo:      documentRepo,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (s *memoryService) Add(ctx context.Context, userId, text string) (*entity.Document, error) {
	vector, err := s.embeddingProvider.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Text:       text,
		Embedding:  vector,
		Collection: entity.CollectionMemory,
		UserId:     &userId,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.log.Info("memory", "memory stored", map[string]interface{}{
		"user_id": userId,
		"id":      doc.Id,
	})
	return doc, nil
}

func (s *memoryService) Search(ctx context.Context, userId, query string, topK int) ([]*contract.ScoredDocument, error) {
	vector, err := s.embeddingProvider.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.documentRepo.SearchSimilarWithScore(ctx, vector, topK,
		specification.ByCollection{Collection: entity.CollectionMemory},
		specification.ByUserId{UserId: userId},
	)
}

func (s *memoryService) GetAll(ctx context.Context, userId string) ([]*entity.Document, error) {
	return s.documentRepo.FindAll(ctx,
		specification.ByCollection{Collection: entity.CollectionMemory},
		specification.ByUserId{UserId: userId},
	)
}

// Delete checks ownership first so one user can never delete another's
// memory by guessing ids.
func (s *memoryService) Delete(ctx context.Context, userId string, id int64) error {
	docs, err := s.documentRepo.FindAll(ctx,
		specification.ByIds{Ids: []int64{id}},
		specification.ByCollection{Collection: entity.CollectionMemory},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	return s.documentRepo.Delete(ctx, id)
}
