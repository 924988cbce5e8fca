// Package guard implements the dual-channel admissibility gate a message
// must pass before reaching the conversational agent. Two independent
// checks run concurrently — a similarity check against allowed topics and
// an LLM policy check — and both must pass. A check that cannot execute is
// treated as passed (fail-open): erroneously blocking a legitimate customer
// costs more than letting one off-topic message reach an agent that has its
// own topical instructions.
package guard

import (
	"context"
	"sync"

	"ai-salesbot-be/internal/pkg/logger"
)

// Check names reported in decisions.
const (
	CheckVectorSimilarity = "vector_similarity"
	CheckLLMPolicy        = "llm_policy"
)

// CheckResult is the outcome of one guard check.
type CheckResult struct {
	Passed    bool    `json:"passed"`
	CheckName string  `json:"check_name"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// Decision is the combined, ephemeral verdict for one message. Overall pass
// requires both checks to pass; fail-open only applies to checks whose
// execution itself failed, so a real rejection from one check can never be
// rescued by an infrastructure fault in the other.
type Decision struct {
	Passed      bool
	VectorCheck CheckResult
	LLMCheck    CheckResult
}

// Check evaluates one admissibility channel for a message.
type Check interface {
	Evaluate(ctx context.Context, message string) CheckResult
}

// Gate fans a message out to both checks and joins the results. Exactly one
// evaluation per message, no retries at this level.
type Gate struct {
	vectorCheck Check
	llmCheck    Check
	log         logger.ILogger
}

func NewGate(vectorCheck, llmCheck Check, log logger.ILogger) *Gate {
	return &Gate{
		vectorCheck: vectorCheck,
		llmCheck:    llmCheck,
		log:         log,
	}
}

// Evaluate launches both checks as concurrent siblings and awaits both.
// Neither short-circuits the other: telemetry from a check is wanted even
// when its sibling already failed.
func (g *Gate) Evaluate(ctx context.Context, message string) Decision {
	var (
		wg        sync.WaitGroup
		vecResult CheckResult
		llmResult CheckResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vecResult = g.vectorCheck.Evaluate(ctx, message)
	}()
	go func() {
		defer wg.Done()
		llmResult = g.llmCheck.Evaluate(ctx, message)
	}()
	wg.Wait()

	decision := Decision{
		Passed:      vecResult.Passed && llmResult.Passed,
		VectorCheck: vecResult,
		LLMCheck:    llmResult,
	}

	if !decision.Passed {
		g.log.Warn("guard", "message blocked", map[string]interface{}{
			"vector_passed": vecResult.Passed,
			"vector_score":  vecResult.Score,
			"llm_passed":    llmResult.Passed,
			"llm_reason":    llmResult.Reason,
		})
	}

	return decision
}
