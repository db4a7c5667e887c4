package implementation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/entity"
	"ai-support-chatbot-be/internal/repository/contract"
)

const historyKeyPrefix = "chat:history:"

// HistoryRedisRepositoryImpl keeps each user's transcript in a Redis
// list. The key TTL doubles as the idle-session cleanup.
type HistoryRedisRepositoryImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHistoryRedisRepository(client *redis.Client, ttl time.Duration) contract.HistoryRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HistoryRedisRepositoryImpl{
		client: client,
		ttl:    ttl,
	}
}

func (r *HistoryRedisRepositoryImpl) Get(ctx context.Context, userId string, limit int) ([]entity.Turn, error) {
	if limit <= 0 {
		limit = constant.DefaultHistoryLimit
	}

	raw, err := r.client.LRange(ctx, historyKeyPrefix+userId, int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}

	turns := make([]entity.Turn, 0, len(raw))
	for _, item := range raw {
		var turn entity.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (r *HistoryRedisRepositoryImpl) Append(ctx context.Context, userId string, turns []entity.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	key := historyKeyPrefix + userId
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now()
		}
		raw, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		values = append(values, raw)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// CleanupIdle is a no-op: Redis expires idle transcripts via key TTL.
func (r *HistoryRedisRepositoryImpl) CleanupIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
