package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to redisURL (redis:// or rediss://). It returns nil
// when the URL is empty or the server cannot be reached, and callers fall back
// to in-process state.
func NewRedisClient(ctx context.Context, redisURL string, logger *slog.Logger) *redis.Client {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error("Invalid REDIS_URL, falling back to in-memory state", slog.String("error", err.Error()))
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory state", slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connection established", slog.String("addr", opts.Addr))
	return client
}
