package openai

import (
	"context"
	"errors"
	"sort"

	"ai-salesbot-be/pkg/embedding"
	"ai-salesbot-be/pkg/retry"

	"github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client    *openai.Client
	model     string
	dimension int
	retryCfg  retry.Config
}

var _ embedding.EmbeddingProvider = (*OpenAIProvider)(nil)

func NewOpenAIProvider(apiKey, model string, dimension int, retryCfg retry.Config) *OpenAIProvider {
	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		model:     model,
		dimension: dimension,
		retryCfg:  retryCfg,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	return retry.Do(ctx, p.retryCfg, "embedding.generate", func(ctx context.Context) ([]float32, error) {
		rsp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.model),
		})
		if err != nil {
			return nil, err
		}
		if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
			return nil, errors.New("no embedding in response")
		}
		return rsp.Data[0].Embedding, nil
	})
}

func (p *OpenAIProvider) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	return retry.Do(ctx, p.retryCfg, "embedding.generate_batch", func(ctx context.Context) ([][]float32, error) {
		rsp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(p.model),
		})
		if err != nil {
			return nil, err
		}
		if len(rsp.Data) != len(texts) {
			return nil, errors.New("embedding count mismatch")
		}

		// The API may return items out of order; Index restores it.
		sort.Slice(rsp.Data, func(i, j int) bool {
			return rsp.Data[i].Index < rsp.Data[j].Index
		})

		out := make([][]float32, len(rsp.Data))
		for i, item := range rsp.Data {
			out[i] = item.Embedding
		}
		return out, nil
	})
}

func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}
