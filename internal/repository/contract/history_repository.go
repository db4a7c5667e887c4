package contract

import (
	"context"
	"time"

	"ai-support-chatbot-be/internal/entity"
)

// HistoryRepository stores per-user conversation turns.
type HistoryRepository interface {
	// Get returns up to limit most recent turns, oldest first.
	Get(ctx context.Context, userId string, limit int) ([]entity.Turn, error)

	// Append adds turns to the user's history and refreshes the
	// session's last-active timestamp.
	Append(ctx context.Context, userId string, turns []entity.Turn) error

	// CleanupIdle removes sessions whose last activity is before cutoff.
	// Backends with native TTL treat this as a no-op.
	CleanupIdle(ctx context.Context, cutoff time.Time) (int64, error)
}
