// Package cache хранит в Redis пешеходные маршруты сервиса маршрутизации.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hk-smart-transport/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Таймауты меньше таймаута запроса к OSRM
const (
	dialTimeout    = 3 * time.Second
	ioTimeout      = 2 * time.Second
	connectTimeout = 5 * time.Second
)

// Redis - подключение к кешу маршрутов. Включается через REDIS_ENABLED.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis подключается к Redis и проверяет соединение
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to route cache %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.Info("Route cache connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("db", cfg.DB),
	)

	return &Redis{
		client: client,
		logger: logger,
	}, nil
}

func (r *Redis) Close() error {
	r.logger.Info("Closing route cache connection")
	return r.client.Close()
}

// Health - проверка для /api/v1/health
func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
