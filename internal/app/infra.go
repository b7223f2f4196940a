package app

import (
	"context"

	"github.com/Danh321/AuthLearningProject/internal/config"
	"github.com/Danh321/AuthLearningProject/internal/db"
	"github.com/Danh321/AuthLearningProject/internal/logger"
	"github.com/Danh321/AuthLearningProject/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client // nil when REDIS_ADDR is unset
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: database}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			database.Close()
			return nil, err
		}
		infra.Redis = redisClient
		logger.Info("redis ready", nil)
	}

	return infra, nil
}

// Close releases the infra handles. The redis failure does not stop
// the database handle from closing; the first error wins.
func (i *Infra) Close() error {
	var firstErr error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if err := i.DB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
