package spatial

import (
	"math"
	"testing"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestGrid_Key(t *testing.T) {
	g := NewGrid[string](0.005)

	assert.Equal(t, CellKey{Row: 4459, Col: 22834}, g.Key(22.2976, 114.1722))
	assert.Equal(t, CellKey{Row: -1, Col: -1}, g.Key(-0.001, -0.001))
	assert.Equal(t, CellKey{Row: 0, Col: 0}, g.Key(0, 0))
}

func TestGrid_VisitBox(t *testing.T) {
	g := NewGrid[string](1)
	g.Insert(0.5, 0.5, "a")
	g.Insert(0.6, 0.6, "b")
	g.Insert(1.5, 1.5, "c")
	g.Insert(5.5, 5.5, "far")

	var seen []string
	g.VisitBox(domain.BoundingBox{MinLat: 0, MinLng: 0, MaxLat: 1.9, MaxLng: 1.9}, func(item string) bool {
		seen = append(seen, item)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Equal(t, 4, g.Len())

	var first []string
	g.VisitBox(domain.BoundingBox{MinLat: 0, MinLng: 0, MaxLat: 1.9, MaxLng: 1.9}, func(item string) bool {
		first = append(first, item)
		return false
	})
	assert.Equal(t, []string{"a"}, first)
}

func TestGrid_VisitBox_Bounds(t *testing.T) {
	g := NewGrid[string](0.005)
	g.Insert(22.30, 114.17, "kowloon")
	g.Insert(-33.86, 151.21, "sydney")
	g.Insert(22.28, 114.16, "central")

	collect := func(box domain.BoundingBox) []string {
		var seen []string
		g.VisitBox(box, func(item string) bool {
			seen = append(seen, item)
			return true
		})
		return seen
	}

	t.Run("whole world visits populated cells in row order", func(t *testing.T) {
		seen := collect(domain.BoundingBox{MinLat: -1e4, MinLng: -1e4, MaxLat: 1e4, MaxLng: 1e4})
		assert.Equal(t, []string{"sydney", "central", "kowloon"}, seen)
	})

	t.Run("box outside populated extent", func(t *testing.T) {
		assert.Empty(t, collect(domain.BoundingBox{MinLat: 40, MinLng: 0, MaxLat: 50, MaxLng: 10}))
	})

	t.Run("NaN box", func(t *testing.T) {
		assert.Empty(t, collect(domain.BoundingBox{MinLat: math.NaN(), MinLng: 0, MaxLat: 1, MaxLng: 1}))
	})

	t.Run("empty grid", func(t *testing.T) {
		called := false
		NewGrid[string](0.005).VisitBox(domain.BoundingBox{MinLat: -90, MinLng: -180, MaxLat: 90, MaxLng: 180}, func(string) bool {
			called = true
			return true
		})
		assert.False(t, called)
	})
}
