package refresh

import (
	"context"
	"time"

	"github.com/hk-smart-transport/internal/usecase"
	"github.com/hk-smart-transport/internal/worker"
	"go.uber.org/zap"
)

const defaultCheckInterval = time.Hour

// StalenessChecker - источник, умеющий сообщить об устаревшем снапшоте
type StalenessChecker interface {
	Name() string
	IsStale(ctx context.Context) bool
}

// PointCache - кеш точек, который воркер пересобирает
type PointCache interface {
	Current() *usecase.PointSnapshot
	Refresh(ctx context.Context) (*usecase.PointSnapshot, error)
}

// SnapshotRefreshWorker периодически пересобирает кеш точек, если снапшот станций
// устарел или сам кеш старше maxAge
type SnapshotRefreshWorker struct {
	*worker.BaseWorker
	cache    PointCache
	checkers []StalenessChecker
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

// NewSnapshotRefreshWorker - maxAge <= 0 отключает пересборку по возрасту
func NewSnapshotRefreshWorker(
	cache PointCache,
	checkers []StalenessChecker,
	interval time.Duration,
	maxAge time.Duration,
	logger *zap.Logger,
) *SnapshotRefreshWorker {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &SnapshotRefreshWorker{
		BaseWorker: worker.NewBaseWorker("snapshot-refresh", logger),
		cache:      cache,
		checkers:   checkers,
		interval:   interval,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

func (w *SnapshotRefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SnapshotRefreshWorker",
		zap.Duration("interval", w.interval),
		zap.Duration("max_age", w.maxAge),
		zap.Int("checkers", len(w.checkers)))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick - одна проверка. Возвращает true, если кеш был пересобран.
func (w *SnapshotRefreshWorker) Tick(ctx context.Context) bool {
	reason := w.refreshReason(ctx)
	if reason == "" {
		return false
	}

	logger := w.Logger()
	logger.Info("Refreshing point cache", zap.String("reason", reason))

	snap, err := w.cache.Refresh(ctx)
	if err != nil {
		logger.Error("Point cache refresh failed", zap.Error(err))
		return false
	}
	logger.Info("Point cache refreshed",
		zap.Uint64("version", snap.Version),
		zap.Int("points", len(snap.Points)))
	return true
}

func (w *SnapshotRefreshWorker) refreshReason(ctx context.Context) string {
	for _, c := range w.checkers {
		if c.IsStale(ctx) {
			return "stale snapshot: " + c.Name()
		}
	}

	current := w.cache.Current()
	if current == nil {
		// Кеш еще не собирался, первая сборка произойдет по запросу
		return ""
	}
	if w.maxAge > 0 && w.now().Sub(current.BuiltAt) > w.maxAge {
		return "cache older than max age"
	}
	return ""
}
