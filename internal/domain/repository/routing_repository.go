package repository

import (
	"context"

	"github.com/hk-smart-transport/internal/domain"
)

// RoutingRepository - внешний сервис маршрутизации (OSRM)
type RoutingRepository interface {
	// GetTable возвращает матрицы расстояний и времени между всеми точками
	GetTable(ctx context.Context, points []domain.LatLng) (*domain.TravelMatrix, error)

	// GetRoute возвращает маршрут через точки в заданном порядке
	GetRoute(ctx context.Context, points []domain.LatLng) (*domain.RouteGeometry, error)

	// GetWalkingRoute возвращает пешеходный маршрут между двумя точками
	GetWalkingRoute(ctx context.Context, start, end domain.LatLng) (*domain.RouteGeometry, error)
}
