package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"github.com/hk-smart-transport/internal/pedestrian"
	"github.com/hk-smart-transport/internal/pkg/errors"
	"github.com/hk-smart-transport/internal/pkg/utils"
	"github.com/hk-smart-transport/internal/tour"
	"github.com/hk-smart-transport/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	MatrixSourceRequest = "request"
	MatrixSourceRouting = "routing_service"
)

// RouteOptions - параметры построения маршрутов
type RouteOptions struct {
	SnapDistanceMeters float64
	CacheTTL           time.Duration
}

// RouteUseCase строит пешеходные маршруты и упорядочивает точки.
// graph, routing и cache могут быть nil.
type RouteUseCase struct {
	graph   *pedestrian.Graph
	routing repository.RoutingRepository
	cache   repository.CacheRepository
	opts    RouteOptions
	logger  *zap.Logger
}

func NewRouteUseCase(
	graph *pedestrian.Graph,
	routing repository.RoutingRepository,
	cache repository.CacheRepository,
	opts RouteOptions,
	logger *zap.Logger,
) *RouteUseCase {
	if opts.SnapDistanceMeters <= 0 {
		opts.SnapDistanceMeters = 500
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &RouteUseCase{
		graph:   graph,
		routing: routing,
		cache:   cache,
		opts:    opts,
		logger:  logger,
	}
}

// Walk ищет маршрут по пешеходной сети, при неудаче - у сервиса маршрутизации
func (uc *RouteUseCase) Walk(ctx context.Context, req dto.WalkRequest) (*dto.WalkResponse, error) {
	if !utils.ValidateCoordinates(req.Start.Lat, req.Start.Lng) || !utils.ValidateCoordinates(req.End.Lat, req.End.Lng) {
		return nil, errors.ErrInvalidCoordinates
	}

	if route, ok := uc.graph.FindRoute(req.Start.Lat, req.Start.Lng, req.End.Lat, req.End.Lng, uc.opts.SnapDistanceMeters); ok {
		return walkResponse(&domain.WalkRoute{
			Polyline:        route.Polyline,
			DistanceMeters:  route.DistanceMeters,
			DurationSeconds: route.DistanceMeters / domain.WalkingSpeedMetersPerMinute * 60,
			Source:          domain.RouteSourcePedestrianNetwork,
		}), nil
	}

	if uc.routing == nil {
		return nil, errors.ErrRouteNotFound
	}

	if cached := uc.cachedWalkRoute(ctx, req.Start, req.End); cached != nil {
		return walkResponse(cached), nil
	}

	geom, err := uc.routing.GetWalkingRoute(ctx, req.Start, req.End)
	if err != nil {
		uc.logger.Warn("Walking route fallback failed", zap.Error(err))
		return nil, errors.ErrRouteNotFound
	}

	route := &domain.WalkRoute{
		Polyline:        geom.Polyline,
		DistanceMeters:  geom.DistanceMeters,
		DurationSeconds: geom.DurationSeconds,
		Source:          domain.RouteSourceOSRM,
	}
	if uc.cache != nil {
		if err := uc.cache.SetWalkRoute(ctx, req.Start, req.End, route, uc.opts.CacheTTL); err != nil {
			uc.logger.Warn("Failed to cache walking route", zap.Error(err))
		}
	}
	return walkResponse(route), nil
}

func (uc *RouteUseCase) cachedWalkRoute(ctx context.Context, start, end domain.LatLng) *domain.WalkRoute {
	if uc.cache == nil {
		return nil
	}
	route, err := uc.cache.GetWalkRoute(ctx, start, end)
	if err != nil {
		uc.logger.Warn("Failed to read walking route from cache", zap.Error(err))
		return nil
	}
	return route
}

func walkResponse(route *domain.WalkRoute) *dto.WalkResponse {
	return &dto.WalkResponse{
		Polyline:        route.Polyline,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		WalkMinutes:     domain.WalkMinutesFor(route.DistanceMeters),
		Source:          string(route.Source),
	}
}

// Optimize упорядочивает точки. Матрица берется из запроса или у сервиса маршрутизации,
// геометрия итогового маршрута запрашивается по возможности и на ответ не влияет.
func (uc *RouteUseCase) Optimize(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResponse, error) {
	n := len(req.Points)
	if n == 0 {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"points": "at least one point is required"})
	}
	for _, p := range req.Points {
		if !utils.ValidateCoordinates(p.Lat, p.Lng) {
			return nil, errors.ErrInvalidCoordinates
		}
	}
	if req.Start < 0 || req.Start >= n {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"start": "out of range"})
	}

	costs, source, err := uc.costMatrix(ctx, req)
	if err != nil {
		return nil, err
	}

	order, err := tour.Solve(costs, req.Start)
	if err != nil {
		return nil, errors.ErrInvalidMatrix.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	resp := &dto.OptimizeResponse{
		OrderedIndex: order,
		Optimized:    make([]domain.LatLng, 0, n),
		MatrixSource: source,
	}
	for _, i := range order {
		resp.Optimized = append(resp.Optimized, req.Points[i])
	}
	if total := tour.PathLength(order, costs); !math.IsInf(total, 0) && !math.IsNaN(total) {
		resp.TotalCost = &total
	}

	uc.attachGeometry(ctx, resp)
	return resp, nil
}

func (uc *RouteUseCase) costMatrix(ctx context.Context, req dto.OptimizeRequest) ([][]float64, string, error) {
	n := len(req.Points)

	if req.Matrix != nil {
		if err := checkMatrix(req.Matrix, n); err != nil {
			return nil, "", errors.ErrInvalidMatrix.WithDetails(map[string]interface{}{"reason": err.Error()})
		}
		return req.Matrix, MatrixSourceRequest, nil
	}

	if n == 1 {
		return [][]float64{{0}}, MatrixSourceRequest, nil
	}
	if uc.routing == nil {
		return nil, "", errors.ErrMatrixUnavailable
	}

	table, err := uc.routing.GetTable(ctx, req.Points)
	if err != nil {
		uc.logger.Error("Routing table request failed", zap.Int("points", n), zap.Error(err))
		return nil, "", errors.ErrMatrixUnavailable
	}
	costs := table.Costs()
	if err := checkMatrix(costs, n); err != nil {
		uc.logger.Error("Routing table has unexpected shape", zap.Error(err))
		return nil, "", errors.ErrMatrixUnavailable
	}
	return costs, MatrixSourceRouting, nil
}

func (uc *RouteUseCase) attachGeometry(ctx context.Context, resp *dto.OptimizeResponse) {
	if uc.routing == nil || len(resp.Optimized) < 2 {
		return
	}
	geom, err := uc.routing.GetRoute(ctx, resp.Optimized)
	if err != nil {
		uc.logger.Warn("Optimized route geometry unavailable", zap.Error(err))
		resp.Warning = "route geometry unavailable"
		return
	}
	resp.Polyline = geom.Polyline
	resp.DistanceMeters = geom.DistanceMeters
	resp.DurationSeconds = geom.DurationSeconds
}

func checkMatrix(m [][]float64, n int) error {
	if len(m) != n {
		return fmt.Errorf("matrix has %d rows, want %d", len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || v < 0 {
				return fmt.Errorf("entry [%d][%d] must be non-negative", i, j)
			}
		}
	}
	return nil
}
