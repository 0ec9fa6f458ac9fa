package testhelpers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PointFixture - строка transit_points
type PointFixture struct {
	Name     string  `db:"name"`
	Category string  `db:"category"`
	Lat      float64 `db:"lat"`
	Lng      float64 `db:"lng"`
}

// InsertPoints вставляет фикстуры в порядке передачи
func InsertPoints(ctx context.Context, db *sqlx.DB, points []PointFixture) error {
	if len(points) == 0 {
		return nil
	}
	_, err := db.NamedExecContext(ctx,
		`INSERT INTO transit_points (name, category, lat, lng) VALUES (:name, :category, :lat, :lng)`,
		points)
	if err != nil {
		return fmt.Errorf("insert transit points: %w", err)
	}
	return nil
}
