package contract

import (
	"context"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/repository/specification"
)

// ScoredDocument pairs a document with its cosine similarity to a query.
type ScoredDocument struct {
	Document   *entity.Document
	Similarity float64
}

type DocumentRepository interface {
	// Create stores the vector and metadata together in one insert, so a
	// reader can never observe a half-written record.
	Create(ctx context.Context, doc *entity.Document) error

	// SearchSimilarWithScore runs a nearest-neighbor query over records
	// matching the given specifications, ordered by similarity descending
	// with id ascending as the tiebreak.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, specs ...specification.Specification) ([]*ScoredDocument, error)

	// SearchSubstring returns up to limit records whose text or populated
	// metadata string fields contain the query, case-insensitively,
	// ordered by id. limit <= 0 means unbounded.
	SearchSubstring(ctx context.Context, query string, limit int, specs ...specification.Specification) ([]*entity.Document, error)

	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Delete(ctx context.Context, id int64) error
}
