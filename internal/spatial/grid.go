// Package spatial содержит равномерную сетку для поиска точек в радиусе.
package spatial

import (
	"math"
	"sort"

	"github.com/hk-smart-transport/internal/domain"
)

// DefaultCellSizeDeg - размер ячейки по умолчанию, около 500 м
const DefaultCellSizeDeg = 0.005

// CellKey - индекс ячейки сетки
type CellKey struct {
	Row int64
	Col int64
}

// Grid - равномерная сетка со списками элементов в ячейках.
// Элемент хранится ровно в одной ячейке, порядок вставки сохраняется.
type Grid[T any] struct {
	cellSize float64
	cells    map[CellKey][]T
	size     int
	// lo, hi - крайние заполненные ячейки
	lo, hi CellKey
}

// NewGrid создает пустую сетку. cellSizeDeg <= 0 заменяется значением по умолчанию.
func NewGrid[T any](cellSizeDeg float64) *Grid[T] {
	if cellSizeDeg <= 0 || math.IsNaN(cellSizeDeg) {
		cellSizeDeg = DefaultCellSizeDeg
	}
	return &Grid[T]{
		cellSize: cellSizeDeg,
		cells:    make(map[CellKey][]T),
	}
}

// CellSize - размер ячейки в градусах
func (g *Grid[T]) CellSize() float64 {
	return g.cellSize
}

// Len - количество элементов
func (g *Grid[T]) Len() int {
	return g.size
}

// Key возвращает ячейку для координат
func (g *Grid[T]) Key(lat, lng float64) CellKey {
	return CellKey{
		Row: int64(math.Floor(lat / g.cellSize)),
		Col: int64(math.Floor(lng / g.cellSize)),
	}
}

// Insert добавляет элемент в ячейку координат
func (g *Grid[T]) Insert(lat, lng float64, item T) {
	key := g.Key(lat, lng)
	if g.size == 0 {
		g.lo, g.hi = key, key
	} else {
		g.lo = CellKey{Row: min(g.lo.Row, key.Row), Col: min(g.lo.Col, key.Col)}
		g.hi = CellKey{Row: max(g.hi.Row, key.Row), Col: max(g.hi.Col, key.Col)}
	}
	g.cells[key] = append(g.cells[key], item)
	g.size++
}

// Cell возвращает элементы ячейки
func (g *Grid[T]) Cell(key CellKey) []T {
	return g.cells[key]
}

// VisitBox обходит все ячейки, пересекающие прямоугольник, строка за строкой.
// Прямоугольник обрезается по допустимым координатам и по заполненной части сетки.
// Просматривается не больше ячеек, чем покрыто прямоугольником или заполнено в сетке.
// Обход прекращается, если visit вернул false.
func (g *Grid[T]) VisitBox(box domain.BoundingBox, visit func(item T) bool) {
	if g.size == 0 || math.IsNaN(box.MinLat) || math.IsNaN(box.MinLng) ||
		math.IsNaN(box.MaxLat) || math.IsNaN(box.MaxLng) {
		return
	}

	lo := g.Key(math.Max(box.MinLat, -90), math.Max(box.MinLng, -180))
	hi := g.Key(math.Min(box.MaxLat, 90), math.Min(box.MaxLng, 180))
	lo = CellKey{Row: max(lo.Row, g.lo.Row), Col: max(lo.Col, g.lo.Col)}
	hi = CellKey{Row: min(hi.Row, g.hi.Row), Col: min(hi.Col, g.hi.Col)}
	if lo.Row > hi.Row || lo.Col > hi.Col {
		return
	}

	rows := float64(hi.Row - lo.Row + 1)
	cols := float64(hi.Col - lo.Col + 1)
	if rows*cols > float64(len(g.cells)) {
		g.visitSparse(lo, hi, visit)
		return
	}

	for row := lo.Row; row <= hi.Row; row++ {
		for col := lo.Col; col <= hi.Col; col++ {
			for _, item := range g.cells[CellKey{Row: row, Col: col}] {
				if !visit(item) {
					return
				}
			}
		}
	}
}

// visitSparse перебирает только заполненные ячейки в том же порядке, что и VisitBox
func (g *Grid[T]) visitSparse(lo, hi CellKey, visit func(item T) bool) {
	keys := make([]CellKey, 0, len(g.cells))
	for key := range g.cells {
		if key.Row >= lo.Row && key.Row <= hi.Row && key.Col >= lo.Col && key.Col <= hi.Col {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})

	for _, key := range keys {
		for _, item := range g.cells[key] {
			if !visit(item) {
				return
			}
		}
	}
}
