package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"

	"ai-support-chatbot-be/pkg/embedding"
	"ai-support-chatbot-be/pkg/knowledge"
)

type memoryEntry struct {
	chunk  knowledge.Chunk
	vector []float32
}

type memorySnapshot struct {
	version string
	entries []memoryEntry
}

// MemoryIndex keeps embedded chunks in process memory behind an atomic
// snapshot pointer. Rebuild embeds into a fresh snapshot and swaps it in
// with a single store, so readers never observe a partial index.
type MemoryIndex struct {
	provider embedding.EmbeddingProvider
	snapshot atomic.Pointer[memorySnapshot]
}

var _ VectorIndex = &MemoryIndex{}

func NewMemoryIndex(provider embedding.EmbeddingProvider) *MemoryIndex {
	idx := &MemoryIndex{provider: provider}
	idx.snapshot.Store(&memorySnapshot{})
	return idx
}

func (m *MemoryIndex) Rebuild(ctx context.Context, chunks []knowledge.Chunk) error {
	entries := make([]memoryEntry, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := m.provider.Generate(chunk.Text, embedding.TaskTypeDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", chunk.Index, err)
		}
		entries = append(entries, memoryEntry{
			chunk:  chunk,
			vector: embedding.NormalizeVector(res.Embedding.Values),
		})
	}

	m.snapshot.Store(&memorySnapshot{
		version: uuid.NewString(),
		entries: entries,
	})
	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, text string, topK int) ([]ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	snap := m.snapshot.Load()
	if len(snap.entries) == 0 {
		return []ScoredChunk{}, nil
	}

	res, err := m.provider.Generate(text, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	query := embedding.NormalizeVector(res.Embedding.Values)

	scored := make([]ScoredChunk, 0, len(snap.entries))
	for _, entry := range snap.entries {
		scored = append(scored, ScoredChunk{
			Chunk: entry.chunk,
			Score: dot(query, entry.vector),
		})
	}

	// Stable sort keeps equal-score chunks in corpus order, so results
	// are reproducible across identical rebuilds.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (m *MemoryIndex) Version() string {
	return m.snapshot.Load().version
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
