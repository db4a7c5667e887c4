package vectorstore

import (
	"context"

	"ai-support-chatbot-be/pkg/knowledge"
)

const DefaultTopK = 5

// ScoredChunk is a knowledge chunk with its similarity to a query.
type ScoredChunk struct {
	knowledge.Chunk
	Score float64
}

// VectorIndex is the retrieval contract shared by the in-memory and
// pgvector backends. Rebuild replaces the whole index atomically; queries
// running concurrently see either the old or the new version, never a mix.
type VectorIndex interface {
	Rebuild(ctx context.Context, chunks []knowledge.Chunk) error
	Query(ctx context.Context, text string, topK int) ([]ScoredChunk, error)

	// Version identifies the currently published index generation.
	// Empty until the first successful rebuild.
	Version() string
}
