package repositories

import (
	"context"
	"fmt"

	"drawnet/internal/core/ports"
	"drawnet/internal/infrastructure/repositories/memory"
	redisrepo "drawnet/internal/infrastructure/repositories/redis"
	"drawnet/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory hands out board repositories backed by Redis when it is
// reachable, with a memory fallback unless Redis is marked required.
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			if cfg.Redis.Required {
				return nil, fmt.Errorf("redis is required but unavailable: %w", err)
			}
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	return factory, nil
}

func (f *RepositoryFactory) CreateBoardRepository() ports.BoardRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisBoardRepository(f.redisClient)
	}
	return memory.NewMemoryBoardRepository()
}

// Close closes the Redis connection if one was opened.
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck pings Redis when it is the active backend.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
