package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGuardRules(t *testing.T) {
	path := writeRules(t, `{
		"allowed_topics": ["สอบถามราคาสินค้า", "สอบถามสูตรอาหาร"],
		"rejection_message_th": "ขออภัยค่ะ"
	}`)

	rules, err := LoadGuardRules(path)
	require.NoError(t, err)
	assert.Len(t, rules.AllowedTopics, 2)
	assert.Equal(t, "ขออภัยค่ะ", rules.RejectionMessage)
}

func TestLoadGuardRulesDefaultsRejectionMessage(t *testing.T) {
	path := writeRules(t, `{"allowed_topics": ["หัวข้อเดียว"]}`)

	rules, err := LoadGuardRules(path)
	require.NoError(t, err)
	assert.NotEmpty(t, rules.RejectionMessage)
}

func TestLoadGuardRulesFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"allowed_topics": [`},
		{"no topics", `{"allowed_topics": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGuardRules(writeRules(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadGuardRulesMissingFile(t *testing.T) {
	_, err := LoadGuardRules(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
