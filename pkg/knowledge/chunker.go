package knowledge

import "fmt"

// Chunk is a bounded text span cut from the corpus. Offset is the rune
// offset of the chunk inside the corpus it was cut from.
type Chunk struct {
	Index  int
	Offset int
	Text   string
}

// SplitCorpus splits the corpus into overlapping chunks using a sliding
// window over runes. Every window is chunkSize runes and consecutive windows
// advance by chunkSize-overlap, so adjacent chunks share exactly overlap
// runes and the union of chunks covers the whole corpus. The final chunk may
// be shorter; it is kept as-is.
func SplitCorpus(corpus string, chunkSize, overlap int) ([]Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got overlap=%d chunk size=%d", overlap, chunkSize)
	}

	runes := []rune(corpus)
	total := len(runes)

	if total <= chunkSize {
		return []Chunk{{Index: 0, Offset: 0, Text: corpus}}, nil
	}

	step := chunkSize - overlap
	var chunks []Chunk
	for i := 0; i < total; i += step {
		end := i + chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Offset: i,
			Text:   string(runes[i:end]),
		})

		if end == total {
			break
		}
	}

	return chunks, nil
}
