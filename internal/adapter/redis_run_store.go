package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-seeder/internal/domain"
)

var _ domain.RunStore = (*RedisRunStore)(nil)

// RedisRunStore implements domain.RunStore with Redis hashes.
type RedisRunStore struct {
	client redis.Cmdable
}

func NewRedisRunStore(client redis.Cmdable) *RedisRunStore {
	return &RedisRunStore{client: client}
}

func (s *RedisRunStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// PutField sends HSET and EXPIRE as one MULTI/EXEC.
func (s *RedisRunStore) PutField(ctx context.Context, key, field, value string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s/%s: %w", key, field, err)
	}
	return nil
}

func (s *RedisRunStore) Fields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return map[string]string{}, nil
	case err != nil:
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	return fields, nil
}
