package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCorpusConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{name: "zero chunk size", chunkSize: 0, overlap: 0},
		{name: "negative chunk size", chunkSize: -1, overlap: 0},
		{name: "negative overlap", chunkSize: 100, overlap: -1},
		{name: "overlap equals chunk size", chunkSize: 100, overlap: 100},
		{name: "overlap exceeds chunk size", chunkSize: 100, overlap: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitCorpus("some corpus", tt.chunkSize, tt.overlap)
			assert.Error(t, err)
		})
	}
}

func TestSplitCorpusShortInputSingleChunk(t *testing.T) {
	chunks, err := SplitCorpus("tiny corpus", 500, 100)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0, chunks[0].Offset)
	assert.Equal(t, "tiny corpus", chunks[0].Text)
}

func TestSplitCorpusOverlapAndCoverage(t *testing.T) {
	corpus := strings.Repeat("abcdefghij", 120) // 1200 runes
	chunks, err := SplitCorpus(corpus, 500, 100)
	require.NoError(t, err)
	require.True(t, len(chunks) >= 2)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		if i > 0 {
			// Consecutive windows advance by chunkSize-overlap.
			assert.Equal(t, chunks[i-1].Offset+400, chunk.Offset)

			// Adjacent chunks share exactly 100 runes.
			prevTail := chunks[i-1].Text[len(chunks[i-1].Text)-100:]
			assert.Equal(t, prevTail, chunk.Text[:100])
		}
	}

	// The last chunk reaches the end of the corpus.
	last := chunks[len(chunks)-1]
	assert.Equal(t, len(corpus), last.Offset+len(last.Text))
}

func TestSplitCorpusHandlesMultibyteRunes(t *testing.T) {
	corpus := strings.Repeat("héllo wörld ", 50)
	chunks, err := SplitCorpus(corpus, 100, 20)
	require.NoError(t, err)

	// Reassembling without the overlapping prefixes restores the corpus.
	var b strings.Builder
	for i, chunk := range chunks {
		text := []rune(chunk.Text)
		if i > 0 {
			text = text[20:]
		}
		b.WriteString(string(text))
	}
	assert.Equal(t, corpus, b.String())
}
