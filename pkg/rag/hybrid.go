// Package rag implements hybrid retrieval over the document store: a
// semantic nearest-neighbor phase and a literal substring phase run over
// the same records, merged and deduplicated, with an optional LLM
// refinement pass when the results feed a generative reply.
package rag

import (
	"context"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/contract"
	"ai-salesbot-be/internal/repository/specification"
	"ai-salesbot-be/pkg/embedding"
)

// Match source values carried by each result.
const (
	SourceSemantic  = "semantic"
	SourceSubstring = "substring"
	SourceBoth      = "both"
)

// Result is one retrieval hit. Score is meaningful only when the semantic
// phase produced the record (Source semantic or both).
type Result struct {
	Document *entity.Document `json:"document"`
	Source   string           `json:"source"`
	Score    float64          `json:"score"`
}

// ImageIds collects the image identifiers attached to the result's record.
func (r *Result) ImageIds() []string {
	if r.Document == nil {
		return nil
	}
	return r.Document.ImageIds
}

// SearchOptions scope one hybrid search.
type SearchOptions struct {
	TopK   int
	Specs  []specification.Specification
	Refine bool
}

// Engine runs both phases and joins them. The substring phase rescues
// exact identifiers (SKUs, model strings) whose embeddings land nowhere
// near the query.
type Engine struct {
	repo     contract.DocumentRepository
	embedder embedding.EmbeddingProvider
	refiner  Refiner
	log      logger.ILogger
}

func NewEngine(repo contract.DocumentRepository, embedder embedding.EmbeddingProvider, refiner Refiner, log logger.ILogger) *Engine {
	return &Engine{
		repo:     repo,
		embedder: embedder,
		refiner:  refiner,
		log:      log,
	}
}

// Search performs the full hybrid pipeline. An embedding failure fails the
// whole search: silently returning partial results would present a fault
// as "no relevant information". A refinement failure only degrades the
// search back to the unrefined merged set.
func (e *Engine) Search(ctx context.Context, query string, opts SearchOptions) ([]*Result, error) {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}

	queryVec, err := e.embedder.Generate(ctx, query)
	if err != nil {
		return nil, apperror.New(apperror.KindUpstream, "rag.search.embed", err)
	}

	semantic, err := e.repo.SearchSimilarWithScore(ctx, queryVec, opts.TopK, opts.Specs...)
	if err != nil {
		return nil, err
	}

	substring, err := e.repo.SearchSubstring(ctx, query, opts.TopK, opts.Specs...)
	if err != nil {
		return nil, err
	}

	merged := Merge(semantic, substring)

	e.log.Info("rag", "hybrid search", map[string]interface{}{
		"query_len": len(query),
		"semantic":  len(semantic),
		"substring": len(substring),
		"merged":    len(merged),
	})

	if !opts.Refine || e.refiner == nil || len(merged) == 0 {
		return merged, nil
	}

	refined, err := e.refiner.Refine(ctx, query, merged)
	if err != nil {
		e.log.Warn("rag", "refinement failed, returning unrefined set", map[string]interface{}{
			"error": err.Error(),
		})
		return merged, nil
	}
	return refined, nil
}

// Merge unions the two candidate sets. A record present in both phases is
// emitted once with Source "both" and its semantic score retained.
// Ordering: semantic-sourced records first in score order, then
// substring-only records by ascending id. Both inputs arrive already
// ordered by their phase, so the merge preserves order without re-sorting.
func Merge(semantic []*contract.ScoredDocument, substring []*entity.Document) []*Result {
	results := make([]*Result, 0, len(semantic)+len(substring))
	seen := make(map[int64]*Result, len(semantic))

	for _, s := range semantic {
		r := &Result{
			Document: s.Document,
			Source:   SourceSemantic,
			Score:    s.Similarity,
		}
		results = append(results, r)
		seen[s.Document.Id] = r
	}

	for _, d := range substring {
		if prior, ok := seen[d.Id]; ok {
			prior.Source = SourceBoth
			continue
		}
		results = append(results, &Result{
			Document: d,
			Source:   SourceSubstring,
		})
	}

	return results
}
