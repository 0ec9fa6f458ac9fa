package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hk-smart-transport/internal/config"
	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"go.uber.org/zap"
)

// timeoutSource - источник со своим таймаутом вместо общего
type timeoutSource interface {
	Timeout() time.Duration
}

// FeedSource - живой JSON фид с маппингом полей
type FeedSource struct {
	name        string
	category    domain.Category
	url         string
	recordsPath string
	mapping     FieldMapping
	timeout     time.Duration
	feeds       repository.FeedRepository
	normalizer  Normalizer
	logger      *zap.Logger
}

func NewFeedSource(spec config.SourceSpec, feeds repository.FeedRepository, logger *zap.Logger) *FeedSource {
	category, _ := domain.ParseCategory(spec.Category)
	return &FeedSource{
		name:        spec.Name,
		category:    category,
		url:         spec.URL,
		recordsPath: spec.RecordsPath,
		mapping:     FieldMappingFrom(spec.Fields),
		timeout:     spec.Timeout,
		feeds:       feeds,
		logger:      logger,
	}
}

func (s *FeedSource) Name() string { return s.name }

func (s *FeedSource) Timeout() time.Duration { return s.timeout }

func (s *FeedSource) Fetch(ctx context.Context) (*domain.SourceBatch, error) {
	doc, err := s.feeds.FetchJSON(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.name, err)
	}

	records, ok := ExtractRecords(doc, s.recordsPath)
	if !ok {
		return nil, fmt.Errorf("fetch %s: records path %q not found", s.name, s.recordsPath)
	}

	batch := domain.NewSourceBatch(domain.OriginLive)
	batch.Points = make([]domain.Point, 0, len(records))
	for _, record := range records {
		point, reason := s.normalizer.Normalize(record, s.mapping, s.category)
		if reason != domain.SkipNone {
			batch.Skip(reason)
			continue
		}
		batch.Points = append(batch.Points, point)
	}

	if skipped := batch.SkippedTotal(); skipped > 0 {
		s.logger.Debug("Feed records skipped",
			zap.String("source", s.name),
			zap.Int("skipped", skipped),
			zap.Int("accepted", len(batch.Points)))
	}
	return batch, nil
}

// StaticSource - фиксированный список точек
type StaticSource struct {
	name   string
	points []domain.Point
}

func NewStaticSource(name string, points []domain.Point) *StaticSource {
	return &StaticSource{name: name, points: points}
}

// StaticPoints переводит точки каталога в доменные
func StaticPoints(spec config.SourceSpec) []domain.Point {
	category, _ := domain.ParseCategory(spec.Category)
	points := make([]domain.Point, 0, len(spec.Points))
	for _, p := range spec.Points {
		points = append(points, domain.Point{Name: p.Name, Category: category, Lat: p.Lat, Lng: p.Lng})
	}
	return points
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Fetch(_ context.Context) (*domain.SourceBatch, error) {
	batch := domain.NewSourceBatch(domain.OriginStatic)
	batch.Points = append([]domain.Point(nil), s.points...)
	return batch, nil
}

// BuildSources создает источники в порядке каталога
func BuildSources(
	catalog *config.SourceCatalog,
	feeds repository.FeedRepository,
	snapshots repository.SnapshotRepository,
	staleAfter time.Duration,
	logger *zap.Logger,
) []repository.PointSource {
	sources := make([]repository.PointSource, 0, len(catalog.Sources))
	for _, spec := range catalog.Sources {
		switch spec.Kind {
		case config.SourceKindFeed:
			sources = append(sources, NewFeedSource(spec, feeds, logger))
		case config.SourceKindStatic:
			sources = append(sources, NewStaticSource(spec.Name, StaticPoints(spec)))
		case config.SourceKindRail:
			live := NewFeedSource(spec, feeds, logger)
			sources = append(sources, NewRailSource(live, snapshots, staleAfter, StaticPoints(spec), logger))
		}
	}
	return sources
}
