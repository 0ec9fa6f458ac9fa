package repository

import (
	"context"
	"time"

	"github.com/hk-smart-transport/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу, nil если ключа нет
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetWalkRoute получает закешированный пешеходный маршрут
	GetWalkRoute(ctx context.Context, start, end domain.LatLng) (*domain.WalkRoute, error)

	// SetWalkRoute сохраняет пешеходный маршрут
	SetWalkRoute(ctx context.Context, start, end domain.LatLng, route *domain.WalkRoute, ttl time.Duration) error
}
