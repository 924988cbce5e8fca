package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/llm"
)

// policyVerdict is the expected shape of the model's structured verdict.
// Anything that does not parse into it routes through the fail-open path,
// never a crash.
type policyVerdict struct {
	Allowed    bool    `json:"allowed"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// PolicyCheck submits the message to the LLM with a fixed policy statement
// and parses an allowed/blocked verdict.
type PolicyCheck struct {
	provider     llm.LLMProvider
	policyPrompt string
	model        string
	log          logger.ILogger
}

var _ Check = (*PolicyCheck)(nil)

func NewPolicyCheck(provider llm.LLMProvider, policyPrompt, model string, log logger.ILogger) *PolicyCheck {
	return &PolicyCheck{
		provider:     provider,
		policyPrompt: policyPrompt,
		model:        model,
		log:          log,
	}
}

func (c *PolicyCheck) Evaluate(ctx context.Context, message string) CheckResult {
	history := []llm.Message{
		{Role: "system", Content: c.policyPrompt},
		{Role: "user", Content: message},
	}

	raw, err := c.provider.Chat(ctx, history,
		llm.WithModel(c.model),
		llm.WithTemperature(0),
		llm.WithMaxTokens(100),
	)
	if err != nil {
		c.log.Warn("guard", "policy check failed open", map[string]interface{}{
			"error": err.Error(),
		})
		return CheckResult{
			Passed:    true,
			CheckName: CheckLLMPolicy,
			Score:     0,
			Reason:    fmt.Sprintf("error_fail_open: %v", err),
		}
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		c.log.Warn("guard", "policy verdict unparseable, failing open", map[string]interface{}{
			"raw": truncate(raw, 200),
		})
		return CheckResult{
			Passed:    true,
			CheckName: CheckLLMPolicy,
			Score:     0,
			Reason:    "parse_error_fail_open",
		}
	}

	c.log.Info("guard", "policy check", map[string]interface{}{
		"allowed":    verdict.Allowed,
		"confidence": verdict.Confidence,
		"reason":     verdict.Reason,
	})

	return CheckResult{
		Passed:    verdict.Allowed,
		CheckName: CheckLLMPolicy,
		Score:     verdict.Confidence,
		Reason:    verdict.Reason,
	}
}

// parseVerdict tolerates markdown fences around the JSON object but nothing
// looser than that.
func parseVerdict(raw string) (*policyVerdict, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdict policyVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
