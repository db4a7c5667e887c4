package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/entity"
	"ai-support-chatbot-be/internal/repository/contract"
)

// HistoryRepository is the zero-dependency default backend. Transcripts
// live in a go-cache instance whose TTL handles idle-session expiry.
type HistoryRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewHistoryRepository(ttl time.Duration) contract.HistoryRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HistoryRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *HistoryRepository) Get(ctx context.Context, userId string, limit int) ([]entity.Turn, error) {
	if limit <= 0 {
		limit = constant.DefaultHistoryLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	turns := r.load(userId)
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]entity.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *HistoryRepository) Append(ctx context.Context, userId string, turns []entity.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.load(userId)
	for _, turn := range turns {
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now()
		}
		existing = append(existing, turn)
	}

	// Set refreshes the TTL, so active sessions never expire mid-chat.
	r.cache.Set(userId, existing, cache.DefaultExpiration)
	return nil
}

// CleanupIdle is a no-op: go-cache purges expired transcripts itself.
func (r *HistoryRepository) CleanupIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *HistoryRepository) load(userId string) []entity.Turn {
	if x, found := r.cache.Get(userId); found {
		return x.([]entity.Turn)
	}
	return nil
}
