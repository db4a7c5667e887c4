package embedding

import (
	"fmt"
	"time"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// withRetry runs fn up to maxAttempts times with doubling backoff. Provider
// calls go over the network; transient failures should not fail a whole
// index rebuild.
func withRetry(fn func() (*EmbeddingResponse, error)) (*EmbeddingResponse, error) {
	backoff := initialBackoff

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", maxAttempts, lastErr)
}
