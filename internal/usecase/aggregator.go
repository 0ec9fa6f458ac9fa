package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"go.uber.org/zap"
)

// DefaultSourceTimeout - таймаут источника без собственного значения
const DefaultSourceTimeout = 10 * time.Second

// sourceGracePeriod - сколько источник может работать после своего дедлайна,
// чтобы вернуть запасные данные. После этого его результат отбрасывается.
const sourceGracePeriod = time.Second

// SourceReport - итог одного источника в сборке
type SourceReport struct {
	Name     string                    `json:"name"`
	Origin   domain.SourceOrigin       `json:"origin"`
	Points   int                       `json:"points"`
	Skipped  map[domain.SkipReason]int `json:"skipped,omitempty"`
	Error    string                    `json:"error,omitempty"`
	Duration time.Duration             `json:"duration_ns"`
}

// AggregateResult - объединенные точки всех источников
type AggregateResult struct {
	RunID      string         `json:"run_id"`
	Points     []domain.Point `json:"-"`
	Reports    []SourceReport `json:"sources"`
	Duplicates int            `json:"duplicates"`
}

// Aggregator параллельно опрашивает источники и объединяет результаты
type Aggregator struct {
	timeout time.Duration
	logger  *zap.Logger
}

func NewAggregator(timeout time.Duration, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &Aggregator{timeout: timeout, logger: logger}
}

type sourceResult struct {
	batch *domain.SourceBatch
	err   error
	took  time.Duration
}

// FetchAll опрашивает все источники. Отказ источника дает ноль точек и запись в отчете,
// но не ошибку сборки. Дубликаты отбрасываются в порядке объявления источников.
func (a *Aggregator) FetchAll(ctx context.Context, sources []repository.PointSource) *AggregateResult {
	runID := uuid.NewString()
	results := make([]sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src repository.PointSource) {
			defer wg.Done()
			results[i] = a.fetchOne(ctx, src)
		}(i, src)
	}
	wg.Wait()

	out := &AggregateResult{RunID: runID, Reports: make([]SourceReport, 0, len(sources))}
	seen := make(map[domain.PointKey]struct{})

	for i, src := range sources {
		res := results[i]
		report := SourceReport{Name: src.Name(), Origin: domain.OriginNone, Duration: res.took}

		if res.err != nil {
			report.Error = res.err.Error()
			a.logger.Warn("Point source unavailable",
				zap.String("run_id", runID),
				zap.String("source", src.Name()),
				zap.Duration("took", res.took),
				zap.Error(res.err))
			out.Reports = append(out.Reports, report)
			continue
		}

		report.Origin = res.batch.Origin
		if len(res.batch.Skipped) > 0 {
			report.Skipped = res.batch.Skipped
		}
		for _, p := range res.batch.Points {
			key := p.Key()
			if _, dup := seen[key]; dup {
				out.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			out.Points = append(out.Points, p)
			report.Points++
		}
		out.Reports = append(out.Reports, report)
	}

	a.logger.Info("Point sources aggregated",
		zap.String("run_id", runID),
		zap.Int("sources", len(sources)),
		zap.Int("points", len(out.Points)),
		zap.Int("duplicates", out.Duplicates))

	return out
}

func (a *Aggregator) fetchOne(parent context.Context, src repository.PointSource) sourceResult {
	timeout := a.timeout
	if ts, ok := src.(timeoutSource); ok && ts.Timeout() > 0 {
		timeout = ts.Timeout()
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan sourceResult, 1)
	go func() {
		done <- callSource(ctx, src)
	}()

	select {
	case res := <-done:
		res.took = time.Since(start)
		return res
	case <-ctx.Done():
	}

	grace := time.NewTimer(sourceGracePeriod)
	defer grace.Stop()

	select {
	case res := <-done:
		res.took = time.Since(start)
		return res
	case <-grace.C:
		a.logger.Warn("Point source ignored its deadline, result abandoned",
			zap.String("source", src.Name()),
			zap.Duration("timeout", timeout))
		return sourceResult{
			err:  fmt.Errorf("source did not return within %s: %w", timeout+sourceGracePeriod, ctx.Err()),
			took: time.Since(start),
		}
	}
}

func callSource(ctx context.Context, src repository.PointSource) (res sourceResult) {
	defer func() {
		if r := recover(); r != nil {
			res = sourceResult{err: fmt.Errorf("source panicked: %v", r)}
		}
	}()

	batch, err := src.Fetch(ctx)
	if err != nil {
		return sourceResult{err: err}
	}
	if batch == nil {
		batch = domain.NewSourceBatch(domain.OriginNone)
	}
	return sourceResult{batch: batch}
}
