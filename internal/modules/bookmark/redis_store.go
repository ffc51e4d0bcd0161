package bookmark

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "terra:bookmarks:"

// RedisStore keeps one hash per user, field = label, value = location.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(userID string) string { return redisKeyPrefix + userID }

func (s *RedisStore) Get(ctx context.Context, userID string) (map[string]string, error) {
	m, err := s.rdb.HGetAll(ctx, redisKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	return m, nil
}

// Set replaces the hash atomically.
func (s *RedisStore) Set(ctx context.Context, userID string, bookmarks map[string]string) error {
	key := redisKey(userID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(bookmarks) > 0 {
			fields := make(map[string]interface{}, len(bookmarks))
			for k, v := range bookmarks {
				fields[k] = v
			}
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace bookmarks: %w", err)
	}
	return nil
}
