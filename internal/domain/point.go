package domain

import (
	"math"
	"strings"
)

// Category - вид транспортной точки
type Category string

const (
	CategoryBus     Category = "bus"
	CategoryMinibus Category = "minibus"
	CategoryFerry   Category = "ferry"
	CategoryTaxi    Category = "taxi"
	CategoryRail    Category = "rail"
)

var categoryLabels = map[Category]string{
	CategoryBus:     "Bus Stop",
	CategoryMinibus: "Minibus",
	CategoryFerry:   "Ferry Pier",
	CategoryTaxi:    "Taxi Stand",
	CategoryRail:    "MTR",
}

// AllCategories возвращает категории в порядке объявления
func AllCategories() []Category {
	return []Category{CategoryBus, CategoryMinibus, CategoryFerry, CategoryTaxi, CategoryRail}
}

// Label - отображаемое название категории
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsValid проверяет, что категория известна
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory разбирает название категории без учета регистра
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", false
	}
	return c, true
}

// Matches проверяет фильтр: точное совпадение с категорией
// или подстрока отображаемого названия (без учета регистра).
func (c Category) Matches(filter string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	if f == "" {
		return false
	}
	if f == string(c) {
		return true
	}
	return strings.Contains(strings.ToLower(c.Label()), f)
}

// MatchesAny - true, если фильтров нет или подходит хотя бы один
func (c Category) MatchesAny(filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if c.Matches(f) {
			return true
		}
	}
	return false
}

// Point - нормализованная транспортная точка
type Point struct {
	Name     string   `json:"name" db:"name"`
	Category Category `json:"category" db:"category"`
	Lat      float64  `json:"lat" db:"lat"`
	Lng      float64  `json:"lng" db:"lng"`
}

// PointKey - ключ уникальности: координаты, округленные до 6 знаков, и имя
type PointKey struct {
	LatE6 int64
	LngE6 int64
	Name  string
}

// Key возвращает ключ дедупликации точки
func (p Point) Key() PointKey {
	return PointKey{
		LatE6: int64(math.Round(p.Lat * 1e6)),
		LngE6: int64(math.Round(p.Lng * 1e6)),
		Name:  p.Name,
	}
}

// PointWithDistance - результат поиска рядом
type PointWithDistance struct {
	Point
	DistanceMeters float64 `json:"distance_m"`
	WalkMinutes    int     `json:"walk_min"`
}

// WalkingSpeedMetersPerMinute - скорость пешехода для оценки времени
const WalkingSpeedMetersPerMinute = 70.0

// WalkMinutesFor переводит метры в минуты ходьбы
func WalkMinutesFor(meters float64) int {
	return int(math.Round(meters / WalkingSpeedMetersPerMinute))
}
