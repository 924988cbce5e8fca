package guard

import (
	"context"
	"errors"
	"testing"

	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns canned unit vectors per text.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		return out, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Generate(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

// fakeLLM returns a fixed response or error.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, nil)
}

// fixedCheck returns a canned result; used to isolate gate combination.
type fixedCheck struct{ result CheckResult }

func (f fixedCheck) Evaluate(ctx context.Context, message string) CheckResult { return f.result }

func newTestVectorCheck(t *testing.T, threshold float64) *VectorCheck {
	t.Helper()
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"สอบถามราคาสินค้า": {1, 0, 0},
		"ถามราคาผงเครื่องเทศ": {0.9, 0.1, 0},
		"เขียนโค้ดให้หน่อย":   {0, 1, 0},
	}}
	check, err := NewVectorCheck(context.Background(), embedder, []string{"สอบถามราคาสินค้า"}, threshold, logger.NewNopLogger())
	require.NoError(t, err)
	return check
}

func TestVectorCheckPassAndBlock(t *testing.T) {
	check := newTestVectorCheck(t, 0.45)

	onTopic := check.Evaluate(context.Background(), "ถามราคาผงเครื่องเทศ")
	assert.True(t, onTopic.Passed)
	assert.Equal(t, CheckVectorSimilarity, onTopic.CheckName)
	assert.Equal(t, "สอบถามราคาสินค้า", onTopic.Reason)
	assert.Greater(t, onTopic.Score, 0.45)

	offTopic := check.Evaluate(context.Background(), "เขียนโค้ดให้หน่อย")
	assert.False(t, offTopic.Passed)
	assert.Less(t, offTopic.Score, 0.45)
}

func TestVectorCheckFailsOpenOnEmbeddingError(t *testing.T) {
	check := newTestVectorCheck(t, 0.45)
	check.embedder = &fakeEmbedder{err: errors.New("embedding service down")}

	result := check.Evaluate(context.Background(), "anything")
	assert.True(t, result.Passed)
	assert.Contains(t, result.Reason, "error_fail_open")
}

func TestNewVectorCheckFatalWithoutTopics(t *testing.T) {
	_, err := NewVectorCheck(context.Background(), &fakeEmbedder{}, nil, 0.45, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestNewVectorCheckFatalOnEmbedFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("boom")}
	_, err := NewVectorCheck(context.Background(), embedder, []string{"topic"}, 0.45, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestPolicyCheckVerdicts(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		err        error
		wantPassed bool
		wantReason string
	}{
		{
			name:       "allowed verdict",
			response:   `{"allowed": true, "confidence": 0.95, "reason": "product question"}`,
			wantPassed: true,
			wantReason: "product question",
		},
		{
			name:       "blocked verdict",
			response:   `{"allowed": false, "confidence": 0.9, "reason": "homework request"}`,
			wantPassed: false,
			wantReason: "homework request",
		},
		{
			name:       "fenced json still parses",
			response:   "```json\n{\"allowed\": true, \"confidence\": 0.8, \"reason\": \"ok\"}\n```",
			wantPassed: true,
			wantReason: "ok",
		},
		{
			name:       "non-json fails open",
			response:   "I think this should be allowed",
			wantPassed: true,
			wantReason: "parse_error_fail_open",
		},
		{
			name:       "call error fails open",
			err:        errors.New("timeout"),
			wantPassed: true,
			wantReason: "error_fail_open: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewPolicyCheck(&fakeLLM{response: tt.response, err: tt.err}, "policy", "gpt-4o-mini", logger.NewNopLogger())
			result := check.Evaluate(context.Background(), "message")
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.wantReason, result.Reason)
			assert.Equal(t, CheckLLMPolicy, result.CheckName)
		})
	}
}

func TestGateCombination(t *testing.T) {
	pass := CheckResult{Passed: true, CheckName: "a"}
	block := CheckResult{Passed: false, CheckName: "b", Reason: "off topic"}

	tests := []struct {
		name   string
		vector CheckResult
		policy CheckResult
		want   bool
	}{
		{"both pass", pass, pass, true},
		{"vector blocks", block, pass, false},
		{"policy blocks", pass, block, false},
		{"both block", block, block, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(fixedCheck{tt.vector}, fixedCheck{tt.policy}, logger.NewNopLogger())
			decision := gate.Evaluate(context.Background(), "msg")
			assert.Equal(t, tt.want, decision.Passed)
		})
	}
}

// A real rejection from one check is never rescued by fail-open on the
// other: fail-open only converts execution failures, which surface as
// Passed=true from the failing check itself.
func TestGateFailOpenAsymmetry(t *testing.T) {
	failedOpen := CheckResult{Passed: true, CheckName: CheckLLMPolicy, Reason: "error_fail_open: down"}
	realBlock := CheckResult{Passed: false, CheckName: CheckVectorSimilarity, Reason: "no topic match"}

	gate := NewGate(fixedCheck{realBlock}, fixedCheck{failedOpen}, logger.NewNopLogger())
	decision := gate.Evaluate(context.Background(), "msg")

	assert.False(t, decision.Passed)
	assert.True(t, decision.LLMCheck.Passed)
	assert.False(t, decision.VectorCheck.Passed)
}
