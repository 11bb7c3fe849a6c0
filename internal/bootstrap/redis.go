package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/hr-copilot/config"
	redisstore "github.com/GoSim-25-26J-441/hr-copilot/internal/storage/redis"
	"github.com/redis/go-redis/v9"
)

// OpenEmbeddingCache connects to Redis and returns the query embedding cache.
// The caller owns the returned client.
func OpenEmbeddingCache(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, *redisstore.EmbeddingCache, error) {
	client, err := redisstore.NewClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis connect: %w", err)
	}
	return client, redisstore.NewEmbeddingCache(client, cfg.EmbeddingTTL), nil
}
