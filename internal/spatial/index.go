package spatial

import (
	"math"
	"sort"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/pkg/utils"
)

// bboxSlack расширяет bbox: градус широты в haversine немного длиннее 111320 м,
// и точка ровно на радиусе иначе может попасть в непросмотренную ячейку
const bboxSlack = 1.001

// Index - неизменяемый индекс точек для запросов "что рядом"
type Index struct {
	grid *Grid[domain.Point]
}

// Build строит индекс по точкам. Точки с невалидными координатами пропускаются.
func Build(points []domain.Point, cellSizeDeg float64) *Index {
	grid := NewGrid[domain.Point](cellSizeDeg)
	for _, p := range points {
		if !utils.ValidateCoordinates(p.Lat, p.Lng) {
			continue
		}
		grid.Insert(p.Lat, p.Lng, p)
	}
	return &Index{grid: grid}
}

// Len - количество точек в индексе
func (idx *Index) Len() int {
	if idx == nil || idx.grid == nil {
		return 0
	}
	return idx.grid.Len()
}

// CellSize - размер ячейки индекса
func (idx *Index) CellSize() float64 {
	if idx == nil || idx.grid == nil {
		return DefaultCellSizeDeg
	}
	return idx.grid.CellSize()
}

// Query возвращает точки в радиусе radiusMeters, отсортированные по расстоянию.
// Точка на границе радиуса включается. limit <= 0 означает без ограничения.
// Пустой индекс или radiusMeters <= 0 дают пустой результат.
func (idx *Index) Query(lat, lng, radiusMeters float64, categories []string, limit int) []domain.PointWithDistance {
	results := []domain.PointWithDistance{}
	if idx.Len() == 0 || radiusMeters <= 0 || math.IsNaN(radiusMeters) {
		return results
	}

	box := utils.BoundingBox(lat, lng, radiusMeters*bboxSlack)
	idx.grid.VisitBox(box, func(p domain.Point) bool {
		if !p.Category.MatchesAny(categories) {
			return true
		}
		d := utils.DistanceMeters(lat, lng, p.Lat, p.Lng)
		if d <= radiusMeters {
			results = append(results, domain.PointWithDistance{
				Point:          p,
				DistanceMeters: d,
				WalkMinutes:    domain.WalkMinutesFor(d),
			})
		}
		return true
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
