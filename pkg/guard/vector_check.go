package guard

import (
	"context"
	"fmt"
	"math"

	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/embedding"
)

// VectorCheck holds the allowed-topic collection embedded at startup. The
// topic set is small and fixed for the process lifetime, so vectors live
// in memory and similarity is a normalized inner product (cosine).
type VectorCheck struct {
	embedder  embedding.EmbeddingProvider
	topics    []string
	vectors   [][]float32
	threshold float64
	log       logger.ILogger
}

var _ Check = (*VectorCheck)(nil)

// NewVectorCheck embeds every allowed topic once. Any failure here is
// returned to the caller: a gate that cannot load its rules must refuse to
// start rather than run unguarded.
func NewVectorCheck(ctx context.Context, embedder embedding.EmbeddingProvider, topics []string, threshold float64, log logger.ILogger) (*VectorCheck, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("no allowed topics configured")
	}

	vectors, err := embedder.GenerateBatch(ctx, topics)
	if err != nil {
		return nil, fmt.Errorf("embed allowed topics: %w", err)
	}

	for i := range vectors {
		normalize(vectors[i])
	}

	log.Info("guard", "vector check initialized", map[string]interface{}{
		"topics":    len(topics),
		"threshold": threshold,
	})

	return &VectorCheck{
		embedder:  embedder,
		topics:    topics,
		vectors:   vectors,
		threshold: threshold,
		log:       log,
	}, nil
}

func (c *VectorCheck) Evaluate(ctx context.Context, message string) CheckResult {
	queryVec, err := c.embedder.Generate(ctx, message)
	if err != nil {
		c.log.Warn("guard", "vector check failed open", map[string]interface{}{
			"error": err.Error(),
		})
		return CheckResult{
			Passed:    true,
			CheckName: CheckVectorSimilarity,
			Score:     0,
			Reason:    fmt.Sprintf("error_fail_open: %v", err),
		}
	}

	normalize(queryVec)

	bestScore := math.Inf(-1)
	bestTopic := "unknown"
	for i, topicVec := range c.vectors {
		score := dot(queryVec, topicVec)
		if score > bestScore {
			bestScore = score
			bestTopic = c.topics[i]
		}
	}

	passed := bestScore >= c.threshold

	c.log.Info("guard", "vector check", map[string]interface{}{
		"score":     bestScore,
		"threshold": c.threshold,
		"passed":    passed,
		"topic":     bestTopic,
	})

	return CheckResult{
		Passed:    passed,
		CheckName: CheckVectorSimilarity,
		Score:     bestScore,
		Reason:    bestTopic,
	}
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
