package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"github.com/hk-smart-transport/internal/spatial"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PointSnapshot - неизменяемый снимок точек и индекса
type PointSnapshot struct {
	Points     []domain.Point
	Index      *spatial.Index
	BuiltAt    time.Time
	Version    uint64
	RunID      string
	Reports    []SourceReport
	Duplicates int
}

// PointCache хранит текущий снимок. Читатели всегда видят целый снимок,
// параллельные сборки схлопываются в одну.
type PointCache struct {
	aggregator *Aggregator
	sources    []repository.PointSource
	cellSize   float64
	logger     *zap.Logger

	current atomic.Pointer[PointSnapshot]
	version atomic.Uint64
	group   singleflight.Group
}

func NewPointCache(
	aggregator *Aggregator,
	sources []repository.PointSource,
	cellSizeDeg float64,
	logger *zap.Logger,
) *PointCache {
	return &PointCache{
		aggregator: aggregator,
		sources:    sources,
		cellSize:   cellSizeDeg,
		logger:     logger,
	}
}

// Current возвращает текущий снимок без сборки, nil если его еще нет
func (c *PointCache) Current() *PointSnapshot {
	return c.current.Load()
}

// Get возвращает снимок, собирая его при первом обращении
func (c *PointCache) Get(ctx context.Context) (*PointSnapshot, error) {
	if snap := c.current.Load(); snap != nil {
		return snap, nil
	}
	return c.build(ctx, false)
}

// Warm собирает снимок заранее, если его еще нет
func (c *PointCache) Warm(ctx context.Context) (*PointSnapshot, error) {
	return c.Get(ctx)
}

// Refresh пересобирает снимок. Старый снимок обслуживает запросы до замены.
func (c *PointCache) Refresh(ctx context.Context) (*PointSnapshot, error) {
	return c.build(ctx, true)
}

func (c *PointCache) build(ctx context.Context, force bool) (*PointSnapshot, error) {
	// сборка не привязана к отмене конкретного вызывающего
	buildCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan("build", func() (interface{}, error) {
		if !force {
			if snap := c.current.Load(); snap != nil {
				return snap, nil
			}
		}
		return c.rebuild(buildCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(*PointSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *PointCache) rebuild(ctx context.Context) *PointSnapshot {
	start := time.Now()
	result := c.aggregator.FetchAll(ctx, c.sources)

	snap := &PointSnapshot{
		Points:     result.Points,
		Index:      spatial.Build(result.Points, c.cellSize),
		BuiltAt:    time.Now(),
		Version:    c.version.Add(1),
		RunID:      result.RunID,
		Reports:    result.Reports,
		Duplicates: result.Duplicates,
	}
	c.current.Store(snap)

	c.logger.Info("Point cache rebuilt",
		zap.Uint64("version", snap.Version),
		zap.Int("points", snap.Index.Len()),
		zap.Duration("took", time.Since(start)))
	return snap
}
