package usecase

import (
	"context"
	"time"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"go.uber.org/zap"
)

// DefaultSnapshotStaleAfter - снапшот старше этого считается устаревшим
const DefaultSnapshotStaleAfter = 14 * 24 * time.Hour

// RailSource - источник станций с локальным снапшотом.
// Порядок: свежий снапшот, живой фид (с сохранением снапшота),
// устаревший снапшот, встроенный список. Ошибку не возвращает никогда.
type RailSource struct {
	live       *FeedSource
	snapshots  repository.SnapshotRepository
	staleAfter time.Duration
	fallback   []domain.Point
	logger     *zap.Logger
	now        func() time.Time
}

func NewRailSource(
	live *FeedSource,
	snapshots repository.SnapshotRepository,
	staleAfter time.Duration,
	fallback []domain.Point,
	logger *zap.Logger,
) *RailSource {
	if staleAfter <= 0 {
		staleAfter = DefaultSnapshotStaleAfter
	}
	return &RailSource{
		live:       live,
		snapshots:  snapshots,
		staleAfter: staleAfter,
		fallback:   fallback,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RailSource) Name() string { return s.live.Name() }

func (s *RailSource) Timeout() time.Duration { return s.live.Timeout() }

// IsStale - нужно ли обновлять снапшот
func (s *RailSource) IsStale(ctx context.Context) bool {
	snap := s.loadSnapshot(ctx)
	return snap == nil || s.now().Sub(snap.UpdatedAt) > s.staleAfter
}

func (s *RailSource) loadSnapshot(ctx context.Context) *domain.StationSnapshot {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to read station snapshot", zap.String("source", s.Name()), zap.Error(err))
		return nil
	}
	if snap == nil || len(snap.Stations) == 0 {
		return nil
	}
	return snap
}

func (s *RailSource) Fetch(ctx context.Context) (*domain.SourceBatch, error) {
	category := s.live.category
	snap := s.loadSnapshot(ctx)

	if snap != nil {
		age := s.now().Sub(snap.UpdatedAt)
		if age <= s.staleAfter {
			batch := domain.NewSourceBatch(domain.OriginSnapshot)
			batch.Points = snap.Points(category)
			return batch, nil
		}
		s.logger.Info("Station snapshot is stale, refreshing",
			zap.String("source", s.Name()),
			zap.Duration("age", age))
	}

	live, err := s.live.Fetch(ctx)
	if err == nil && len(live.Points) > 0 {
		s.persist(ctx, live.Points)
		return live, nil
	}
	if err == nil {
		s.logger.Warn("Live station feed returned no stations", zap.String("source", s.Name()))
	} else {
		s.logger.Warn("Live station feed unavailable", zap.String("source", s.Name()), zap.Error(err))
	}

	if snap != nil {
		s.logger.Warn("Using stale station snapshot, data is degraded",
			zap.String("source", s.Name()),
			zap.Time("updated_at", snap.UpdatedAt))
		batch := domain.NewSourceBatch(domain.OriginStaleSnapshot)
		batch.Points = snap.Points(category)
		return batch, nil
	}

	s.logger.Warn("No station snapshot, using built-in station list",
		zap.String("source", s.Name()),
		zap.Int("stations", len(s.fallback)))
	batch := domain.NewSourceBatch(domain.OriginBuiltin)
	batch.Points = append([]domain.Point(nil), s.fallback...)
	return batch, nil
}

func (s *RailSource) persist(ctx context.Context, points []domain.Point) {
	snap := &domain.StationSnapshot{
		UpdatedAt: s.now(),
		Stations:  make([]domain.SnapshotStation, 0, len(points)),
	}
	for _, p := range points {
		snap.Stations = append(snap.Stations, domain.SnapshotStation{Name: p.Name, Lat: p.Lat, Lng: p.Lng})
	}
	if err := s.snapshots.Save(context.WithoutCancel(ctx), snap); err != nil {
		s.logger.Warn("Failed to persist station snapshot", zap.String("source", s.Name()), zap.Error(err))
		return
	}
	s.logger.Info("Station snapshot refreshed",
		zap.String("source", s.Name()),
		zap.Int("stations", len(snap.Stations)))
}
