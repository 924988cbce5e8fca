package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall
	// ToolCallId ties a "tool" role message back to the call it answers.
	ToolCallId string
	Name       string
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	Id        string
	Name      string
	Arguments string // raw JSON arguments
}

// ToolSpec describes a callable tool exposed to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema
}

// ToolChatResponse is one model turn: either content, tool calls, or both.
type ToolChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	JSONOnly    bool   // Force a JSON object response where supported
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithJSONOnly() Option {
	return func(o *Options) {
		o.JSONOnly = true
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ToolCaller is implemented by backends that support native tool calling.
// The orchestrator degrades to plain Chat when a provider lacks it.
type ToolCaller interface {
	ChatWithTools(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*ToolChatResponse, error)
}
