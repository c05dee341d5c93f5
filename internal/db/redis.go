package db

import (
	"github.com/sarag5/Trip-tracker-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds the client backing the per-user trip locks. Redis is
// optional: with no address configured it returns nil and callers fall back
// to in-process locking.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
