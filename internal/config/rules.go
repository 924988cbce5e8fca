package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GuardRules is the externally editable rule data for the guardrail gate:
// the allowed-topic collection and the fixed rejection text. It is loaded
// once at startup and treated as immutable afterwards.
type GuardRules struct {
	AllowedTopics    []string `json:"allowed_topics"`
	RejectionMessage string   `json:"rejection_message_th"`
}

// LoadGuardRules reads the rule file. A guardrail that cannot load its rules
// must refuse to start, so every failure here is returned to the caller
// instead of being defaulted away.
func LoadGuardRules(path string) (*GuardRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("guard rules unreadable at %s: %w", path, err)
	}

	var rules GuardRules
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("guard rules malformed at %s: %w", path, err)
	}

	if len(rules.AllowedTopics) == 0 {
		return nil, fmt.Errorf("guard rules at %s contain no allowed topics", path)
	}
	if rules.RejectionMessage == "" {
		rules.RejectionMessage = "ขออภัย ไม่สามารถตอบคำถามนี้ได้ค่ะ"
	}

	return &rules, nil
}
