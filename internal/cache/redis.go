package cache

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-seeder/internal/config"
)

const dialTimeout = 5 * time.Second

// NewRedisClient builds a client for cfg. It does not contact the server;
// callers check reachability through the store built on top of it.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis address is not configured")
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		MaxRetries:   1,
	}), nil
}
