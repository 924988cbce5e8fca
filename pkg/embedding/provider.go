package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// All vectors from one provider share a fixed dimensionality.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
