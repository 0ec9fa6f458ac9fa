package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/hk-smart-transport/internal/pkg/errors"
	"github.com/hk-smart-transport/internal/pkg/utils"
	"github.com/hk-smart-transport/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	DefaultNearbyRadius = 800.0
	DefaultNearbyLimit  = 50
)

type NearbyUseCase struct {
	cache  *PointCache
	logger *zap.Logger
}

func NewNearbyUseCase(cache *PointCache, logger *zap.Logger) *NearbyUseCase {
	return &NearbyUseCase{cache: cache, logger: logger}
}

// Nearby возвращает точки в радиусе, ближайшие первыми
func (uc *NearbyUseCase) Nearby(ctx context.Context, req dto.NearbyRequest) (*dto.NearbyResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lng) {
		return nil, errors.ErrInvalidCoordinates
	}
	radius := DefaultNearbyRadius
	if req.Radius != nil {
		radius = *req.Radius
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, errors.ErrInvalidRadius
	}
	if req.Limit <= 0 {
		req.Limit = DefaultNearbyLimit
	}

	snap, err := uc.cache.Get(ctx)
	if err != nil {
		uc.logger.Error("Failed to get point cache", zap.Error(err))
		return nil, err
	}

	found := snap.Index.Query(req.Lat, req.Lng, radius, splitTypes(req.Types), req.Limit)

	results := make([]dto.NearbyItem, 0, len(found))
	for _, p := range found {
		results = append(results, dto.NearbyItem{
			Name:     p.Name,
			Type:     p.Category.Label(),
			Category: string(p.Category),
			Lat:      p.Lat,
			Lng:      p.Lng,
			Distance: int(math.Round(p.DistanceMeters)),
			WalkMin:  p.WalkMinutes,
		})
	}

	uc.logger.Debug("Nearby query",
		zap.Float64("lat", req.Lat),
		zap.Float64("lng", req.Lng),
		zap.Float64("radius", radius),
		zap.Int("results", len(results)))

	return &dto.NearbyResponse{
		Results: results,
		Count:   len(results),
		Radius:  radius,
		Version: snap.Version,
	}, nil
}

// Sources возвращает итоги последней сборки без запуска новой
func (uc *NearbyUseCase) Sources() *dto.SourcesResponse {
	return sourcesResponse(uc.cache.Current())
}

// Refresh пересобирает кеш точек
func (uc *NearbyUseCase) Refresh(ctx context.Context) (*dto.SourcesResponse, error) {
	snap, err := uc.cache.Refresh(ctx)
	if err != nil {
		uc.logger.Error("Failed to refresh point cache", zap.Error(err))
		return nil, err
	}
	return sourcesResponse(snap), nil
}

func sourcesResponse(snap *PointSnapshot) *dto.SourcesResponse {
	resp := &dto.SourcesResponse{Sources: []dto.SourceStatus{}}
	if snap == nil {
		return resp
	}

	resp.Built = true
	resp.Version = snap.Version
	resp.RunID = snap.RunID
	resp.BuiltAt = snap.BuiltAt.UTC().Format(time.RFC3339)
	resp.Points = snap.Index.Len()
	resp.Duplicates = snap.Duplicates

	for _, r := range snap.Reports {
		status := dto.SourceStatus{
			Name:       r.Name,
			Origin:     string(r.Origin),
			Points:     r.Points,
			Error:      r.Error,
			DurationMs: r.Duration.Milliseconds(),
		}
		if len(r.Skipped) > 0 {
			status.Skipped = make(map[string]int, len(r.Skipped))
			for reason, n := range r.Skipped {
				status.Skipped[string(reason)] = n
			}
		}
		resp.Sources = append(resp.Sources, status)
	}
	return resp
}

// splitTypes принимает и повторяющиеся параметры, и список через запятую
func splitTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
