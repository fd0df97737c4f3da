package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/config"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
)

// NewClient connects to the configured Redis and verifies it with a ping.
func NewClient(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURI,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisURI, err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.RedisURI), zap.String("reply", pong))
	return rdb, nil
}
