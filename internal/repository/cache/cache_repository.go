package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists error: %w", err)
	}
	return val > 0, nil
}

// WalkRouteKey - ключ пешеходного маршрута, координаты округлены до ~1 м
func WalkRouteKey(start, end domain.LatLng) string {
	return fmt.Sprintf("route:walk:%.5f,%.5f:%.5f,%.5f", start.Lat, start.Lng, end.Lat, end.Lng)
}

// GetWalkRoute возвращает nil без ошибки при промахе
func (r *cacheRepository) GetWalkRoute(ctx context.Context, start, end domain.LatLng) (*domain.WalkRoute, error) {
	data, err := r.Get(ctx, WalkRouteKey(start, end))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var route domain.WalkRoute
	if err := json.Unmarshal(data, &route); err != nil {
		r.logger.Error("Failed to unmarshal walk route from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal walk route: %w", err)
	}
	return &route, nil
}

func (r *cacheRepository) SetWalkRoute(ctx context.Context, start, end domain.LatLng, route *domain.WalkRoute, ttl time.Duration) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("marshal walk route: %w", err)
	}
	return r.Set(ctx, WalkRouteKey(start, end), data, ttl)
}
