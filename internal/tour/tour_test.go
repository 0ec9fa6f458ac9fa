package tour

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_ThreePoints(t *testing.T) {
	matrix := [][]float64{
		{0, 10, 15},
		{10, 0, 20},
		{15, 20, 0},
	}

	assert.Equal(t, []int{0, 1, 2}, NearestNeighbor(matrix, 0))

	order, err := Solve(matrix, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestSolve_EdgeCases(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		order, err := Solve(nil, 0)
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("single point", func(t *testing.T) {
		order, err := Solve([][]float64{{0}}, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, order)
	})

	t.Run("not square", func(t *testing.T) {
		_, err := Solve([][]float64{{0, 1}, {1}}, 0)
		assert.ErrorIs(t, err, ErrInvalidMatrix)
	})

	t.Run("start out of range", func(t *testing.T) {
		_, err := Solve([][]float64{{0, 1}, {1, 0}}, 2)
		assert.ErrorIs(t, err, ErrInvalidStart)
		_, err = Solve([][]float64{{0, 1}, {1, 0}}, -1)
		assert.ErrorIs(t, err, ErrInvalidStart)
	})

	t.Run("non zero start", func(t *testing.T) {
		matrix := [][]float64{
			{0, 10, 15},
			{10, 0, 20},
			{15, 20, 0},
		}
		order, err := Solve(matrix, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 0, 1}, order)
	})
}

func TestNearestNeighbor_Ties(t *testing.T) {
	matrix := [][]float64{
		{0, 5, 5, 5},
		{5, 0, 1, 1},
		{5, 1, 0, 1},
		{5, 1, 1, 0},
	}
	assert.Equal(t, []int{0, 1, 2, 3}, NearestNeighbor(matrix, 0))
}

func TestNearestNeighbor_Unreachable(t *testing.T) {
	inf := math.Inf(1)
	matrix := [][]float64{
		{0, inf, inf},
		{inf, 0, 3},
		{inf, 3, 0},
	}
	assert.Equal(t, []int{0, 1, 2}, NearestNeighbor(matrix, 0))
}

func TestTwoOpt_ImprovesCrossing(t *testing.T) {
	// точки на прямой: 0 -> 2 -> 1 -> 3 хуже, чем 0 -> 1 -> 2 -> 3
	pos := []float64{0, 1, 2, 3}
	matrix := lineMatrix(pos)

	order := TwoOpt([]int{0, 2, 1, 3}, matrix)
	assert.Equal(t, []int{0, 1, 2, 3}, order)
	assert.Equal(t, 3.0, PathLength(order, matrix))
}

func TestTwoOpt_DoesNotMutateInput(t *testing.T) {
	matrix := lineMatrix([]float64{0, 1, 2, 3, 4})
	in := []int{0, 3, 1, 2, 4}
	_ = TwoOpt(in, matrix)
	assert.Equal(t, []int{0, 3, 1, 2, 4}, in)
}

func TestTwoOpt_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(12)
		matrix := randomMatrix(rng, n)
		start := rng.Intn(n)

		nn := NearestNeighbor(matrix, start)
		order, err := Solve(matrix, start)
		require.NoError(t, err)

		assert.LessOrEqual(t, PathLength(order, matrix), PathLength(nn, matrix))
		require.Len(t, order, n)
		assert.Equal(t, start, order[0])

		sorted := append([]int(nil), order...)
		sort.Ints(sorted)
		for i, v := range sorted {
			assert.Equal(t, i, v)
		}
	}
}

func lineMatrix(pos []float64) [][]float64 {
	m := make([][]float64, len(pos))
	for i := range pos {
		m[i] = make([]float64, len(pos))
		for j := range pos {
			m[i][j] = math.Abs(pos[i] - pos[j])
		}
	}
	return m
}

// randomMatrix - несимметричная матрица
func randomMatrix(rng *rand.Rand, n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = 1 + rng.Float64()*100
			}
		}
	}
	return m
}
