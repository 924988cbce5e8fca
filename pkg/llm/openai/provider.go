package openai

import (
	"context"
	"errors"

	"ai-salesbot-be/pkg/llm"
	"ai-salesbot-be/pkg/retry"

	"github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client   *openai.Client
	model    string
	retryCfg retry.Config
}

var _ llm.LLMProvider = (*OpenAIProvider)(nil)
var _ llm.ToolCaller = (*OpenAIProvider)(nil)

func NewOpenAIProvider(apiKey, model string, retryCfg retry.Config) *OpenAIProvider {
	return &OpenAIProvider{
		client:   openai.NewClient(apiKey),
		model:    model,
		retryCfg: retryCfg,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := p.buildOptions(opts)
	req := p.buildRequest(history, nil, options)

	return retry.Do(ctx, p.retryCfg, "llm.chat", func(ctx context.Context) (string, error) {
		rsp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(rsp.Choices) == 0 {
			return "", errors.New("no response from OpenAI")
		}
		return rsp.Choices[0].Message.Content, nil
	})
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *OpenAIProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, opts ...llm.Option) (*llm.ToolChatResponse, error) {
	options := p.buildOptions(opts)
	req := p.buildRequest(history, tools, options)

	return retry.Do(ctx, p.retryCfg, "llm.chat_tools", func(ctx context.Context) (*llm.ToolChatResponse, error) {
		rsp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(rsp.Choices) == 0 {
			return nil, errors.New("no response from OpenAI")
		}

		choice := rsp.Choices[0].Message
		out := &llm.ToolChatResponse{Content: choice.Content}
		for _, tc := range choice.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				Id:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		return out, nil
	})
}

func (p *OpenAIProvider) buildOptions(opts []llm.Option) *llm.Options {
	options := &llm.Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func (p *OpenAIProvider) buildRequest(history []llm.Message, tools []llm.ToolSpec, options *llm.Options) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		m := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallId,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:   tc.Id,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		messages = append(messages, m)
	}

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.JSONOnly {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return req
}
