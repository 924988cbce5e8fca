package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/llm"
)

// Refiner filters a merged candidate set down to the records relevant to
// the query. Implementations must bias toward recall: when in doubt, keep.
type Refiner interface {
	Refine(ctx context.Context, query string, candidates []*Result) ([]*Result, error)
}

// refineVerdict is the structured response expected from the model.
type refineVerdict struct {
	KeepIds []int64 `json:"keep_ids"`
}

// LLMRefiner asks the model which candidate ids are relevant. Returned
// verdicts only ever narrow the set; an empty or unparseable verdict keeps
// every candidate.
type LLMRefiner struct {
	provider llm.LLMProvider
	prompt   string
	model    string
	log      logger.ILogger
}

func NewLLMRefiner(provider llm.LLMProvider, prompt, model string, log logger.ILogger) *LLMRefiner {
	return &LLMRefiner{
		provider: provider,
		prompt:   prompt,
		model:    model,
		log:      log,
	}
}

var _ Refiner = (*LLMRefiner)(nil)

func (r *LLMRefiner) Refine(ctx context.Context, query string, candidates []*Result) ([]*Result, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "คำถามลูกค้า: %s\n\nรายการที่ค้นพบ:\n", query)
	for _, c := range candidates {
		fmt.Fprintf(&b, "[id=%d] %s\n", c.Document.Id, c.Document.Text)
	}

	history := []llm.Message{
		{Role: "system", Content: r.prompt},
		{Role: "user", Content: b.String()},
	}

	raw, err := r.provider.Chat(ctx, history,
		llm.WithModel(r.model),
		llm.WithTemperature(0),
		llm.WithJSONOnly(),
	)
	if err != nil {
		return nil, err
	}

	verdict, err := parseRefineVerdict(raw)
	if err != nil {
		r.log.Warn("rag", "refine verdict unparseable, keeping all candidates", map[string]interface{}{
			"raw_len": len(raw),
		})
		return candidates, nil
	}

	// An empty keep list is indistinguishable from the model punting, so
	// treat it as doubt and keep everything.
	if len(verdict.KeepIds) == 0 {
		return candidates, nil
	}

	keep := make(map[int64]bool, len(verdict.KeepIds))
	for _, id := range verdict.KeepIds {
		keep[id] = true
	}

	refined := make([]*Result, 0, len(candidates))
	for _, c := range candidates {
		if keep[c.Document.Id] {
			refined = append(refined, c)
		}
	}
	if len(refined) == 0 {
		return candidates, nil
	}
	return refined, nil
}

func parseRefineVerdict(raw string) (*refineVerdict, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdict refineVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}
