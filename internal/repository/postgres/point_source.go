package postgres

import (
	"context"
	"fmt"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"github.com/hk-smart-transport/internal/pkg/utils"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PointSourceName - имя источника в отчетах агрегатора
const PointSourceName = "database"

type pointSource struct {
	db         *DB
	categories []string
	logger     *zap.Logger
}

type pointRow struct {
	Name     string  `db:"name"`
	Category string  `db:"category"`
	Lat      float64 `db:"lat"`
	Lng      float64 `db:"lng"`
}

// NewPointSource - источник точек из таблицы transit_points.
// Без категорий читаются все известные категории.
func NewPointSource(db *DB, categories []domain.Category) repository.PointSource {
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return &pointSource{db: db, categories: names, logger: db.logger}
}

func (s *pointSource) Name() string {
	return PointSourceName
}

func (s *pointSource) Fetch(ctx context.Context) (*domain.SourceBatch, error) {
	query := `
		SELECT name, category, lat, lng
		FROM transit_points
		WHERE category = ANY($1)
		ORDER BY id
	`

	var rows []pointRow
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(s.categories)); err != nil {
		s.logger.Error("Failed to load transit points", zap.Error(err))
		return nil, fmt.Errorf("select transit points: %w", err)
	}

	batch := domain.NewSourceBatch(domain.OriginDatabase)
	batch.Points = make([]domain.Point, 0, len(rows))
	for _, row := range rows {
		category, ok := domain.ParseCategory(row.Category)
		if !ok {
			continue
		}
		switch {
		case !(row.Lat >= -90 && row.Lat <= 90):
			batch.Skip(domain.SkipInvalidLat)
			continue
		case !utils.ValidateCoordinates(row.Lat, row.Lng):
			batch.Skip(domain.SkipInvalidLng)
			continue
		}
		batch.Points = append(batch.Points, domain.Point{
			Name:     row.Name,
			Category: category,
			Lat:      row.Lat,
			Lng:      row.Lng,
		})
	}

	s.logger.Debug("Transit points loaded",
		zap.Int("points", len(batch.Points)),
		zap.Int("skipped", batch.SkippedTotal()))
	return batch, nil
}
