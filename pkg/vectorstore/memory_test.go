package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-support-chatbot-be/pkg/embedding"
	"ai-support-chatbot-be/pkg/knowledge"
)

// stubEmbedder maps known texts to fixed vectors so similarity ordering
// is fully deterministic.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	vec, ok := s.vectors[text]
	if !ok {
		vec = []float32{0, 0, 1}
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

func chunksOf(texts ...string) []knowledge.Chunk {
	out := make([]knowledge.Chunk, len(texts))
	for i, text := range texts {
		out[i] = knowledge.Chunk{Index: i, Offset: i * 100, Text: text}
	}
	return out
}

func TestMemoryIndexQueryOrdering(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"phones":     {1, 0, 0},
		"appliances": {0, 1, 0},
		"faqs":       {0.7, 0.7, 0},
		"query":      {1, 0, 0},
	}}
	idx := NewMemoryIndex(embedder)

	require.NoError(t, idx.Rebuild(context.Background(), chunksOf("phones", "appliances", "faqs")))

	got, err := idx.Query(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "phones", got[0].Text)
	assert.Equal(t, "faqs", got[1].Text)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestMemoryIndexEqualScoresKeepCorpusOrder(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"first":  {1, 0, 0},
		"second": {1, 0, 0},
		"query":  {1, 0, 0},
	}}
	idx := NewMemoryIndex(embedder)
	require.NoError(t, idx.Rebuild(context.Background(), chunksOf("first", "second")))

	got, err := idx.Query(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
}

func TestMemoryIndexEmptyIndexReturnsEmpty(t *testing.T) {
	idx := NewMemoryIndex(&stubEmbedder{})

	got, err := idx.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "", idx.Version())
}

func TestMemoryIndexDefaultTopK(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"query": {0, 0, 1}}}
	idx := NewMemoryIndex(embedder)
	require.NoError(t, idx.Rebuild(context.Background(), chunksOf("a", "b", "c", "d", "e", "f", "g")))

	got, err := idx.Query(context.Background(), "query", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultTopK)
}

func TestMemoryIndexRebuildSwapsAtomically(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"query": {0, 0, 1}}}
	idx := NewMemoryIndex(embedder)

	require.NoError(t, idx.Rebuild(context.Background(), chunksOf("old-a", "old-b")))
	v1 := idx.Version()
	require.NotEmpty(t, v1)

	require.NoError(t, idx.Rebuild(context.Background(), chunksOf("new-a")))
	v2 := idx.Version()
	assert.NotEqual(t, v1, v2)

	got, err := idx.Query(context.Background(), "query", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-a", got[0].Text)
}

func TestMemoryIndexRebuildFailureKeepsOldIndex(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"query": {0, 0, 1}}}
	idx := NewMemoryIndex(embedder)
	require.NoError(t, idx.Rebuild(context.Background(), chunksOf("stable")))
	v1 := idx.Version()

	embedder.err = errors.New("embedding service down")
	err := idx.Rebuild(context.Background(), chunksOf("broken"))
	require.Error(t, err)

	// Old snapshot stays queryable.
	embedder.err = nil
	got, err := idx.Query(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "stable", got[0].Text)
	assert.Equal(t, v1, idx.Version())
}
