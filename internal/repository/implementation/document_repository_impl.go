package implementation

import (
	"context"
	"strings"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/mapper"
	"ai-salesbot-be/internal/model"
	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/repository/contract"
	"ai-salesbot-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperror.New(apperror.KindStorage, "documents.create", err)
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

// SearchSimilarWithScore computes cosine similarity via pgvector's cosine
// distance: 1 - (embedding_value <=> query_vector). Metadata filters apply
// before ranking; ties break on the lower id for deterministic ordering.
func (r *DocumentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, specs ...specification.Specification) ([]*contract.ScoredDocument, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Document
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("documents").
		Select("documents.*, 1 - (embedding_value <=> ?) as similarity", queryVector)
	query = r.applySpecifications(query, specs...)

	err := query.
		Order("similarity DESC, id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, apperror.New(apperror.KindStorage, "documents.search_similar", err)
	}

	scored := make([]*contract.ScoredDocument, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocument{
			Document:   r.mapper.ToEntity(&res.Document),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

// SearchSubstring matches the query as a case-insensitive literal against
// the document text and every populated metadata string field. No score;
// results come back in id order, capped at limit so a short query cannot
// drag the whole catalog into one reply.
func (r *DocumentRepositoryImpl) SearchSubstring(ctx context.Context, query string, limit int, specs ...specification.Specification) ([]*entity.Document, error) {
	pattern := "%" + escapeLike(query) + "%"

	var models []*model.Document
	q := r.applySpecifications(r.db.WithContext(ctx), specs...)
	q = q.Where(
		"text ILIKE @p OR name ILIKE @p OR sku ILIKE @p OR color ILIKE @p OR model ILIKE @p",
		map[string]interface{}{"p": pattern},
	).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&models).Error
	if err != nil {
		return nil, apperror.New(apperror.KindStorage, "documents.search_substring", err)
	}

	entities := make([]*entity.Document, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperror.New(apperror.KindStorage, "documents.find_all", err)
	}
	entities := make([]*entity.Document, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Model(&model.Document{}).Count(&count).Error; err != nil {
		return 0, apperror.New(apperror.KindStorage, "documents.count", err)
	}
	return count, nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Document{}, id).Error; err != nil {
		return apperror.New(apperror.KindStorage, "documents.delete", err)
	}
	return nil
}

// escapeLike neutralizes LIKE wildcards so user queries stay literal.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
