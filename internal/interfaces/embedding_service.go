package interfaces

import "context"

// EmbeddingService generates vector embeddings for text
type EmbeddingService interface {
	// GenerateEmbedding creates an embedding vector for the given text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetDimension returns the configured embedding dimensionality
	GetDimension() int

	// Close releases provider resources
	Close() error
}
