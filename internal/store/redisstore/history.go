package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/health-chat/internal/chat"
)

const defaultHistoryTTL = 24 * time.Hour

// HistoryCache keeps each user's most recent turns in a Redis list, oldest at the head.
type HistoryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int) *HistoryCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewWithClient(rdb, defaultHistoryTTL)
}

func NewWithClient(rdb *redis.Client, ttl time.Duration) *HistoryCache {
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &HistoryCache{rdb: rdb, ttl: ttl}
}

func (c *HistoryCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *HistoryCache) Close() error {
	return c.rdb.Close()
}

func historyKey(userID string) string {
	return "chat:history:" + userID
}

func (c *HistoryCache) RecentTurns(ctx context.Context, userID string, limit int) ([]chat.ChatTurn, bool, error) {
	key := historyKey(userID)
	raw, err := c.rdb.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, nil
	}

	turns := make([]chat.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var t chat.ChatTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			// corrupted entry: treat as a miss so the caller rebuilds from the db
			_ = c.rdb.Del(ctx, key).Err()
			return nil, false, fmt.Errorf("decode cached turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, true, nil
}

// StoreTurns replaces the cached list with turns (oldest first).
func (c *HistoryCache) StoreTurns(ctx context.Context, userID string, turns []chat.ChatTurn, limit int) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		values = append(values, b)
	}

	key := historyKey(userID)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-limit), -1)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// AppendTurn pushes turn onto an already cached list. Users without a cached list
// are left alone: a partial list would hide older turns from the next load.
func (c *HistoryCache) AppendTurn(ctx context.Context, turn chat.ChatTurn, limit int) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := historyKey(turn.UserID)
	pipe := c.rdb.TxPipeline()
	pipe.RPushX(ctx, key, b)
	pipe.LTrim(ctx, key, int64(-limit), -1)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}
