// Package tour упорядочивает точки маршрута эвристикой ближайшего соседа с улучшением 2-opt.
// Маршрут открытый: возврата в начальную точку нет.
package tour

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidMatrix = errors.New("distance matrix must be square")
	ErrInvalidStart  = errors.New("start index out of range")
)

// Validate проверяет, что матрица квадратная
func Validate(matrix [][]float64) error {
	n := len(matrix)
	for i, row := range matrix {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
	}
	return nil
}

// PathLength - длина открытого пути по матрице
func PathLength(order []int, matrix [][]float64) float64 {
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += matrix[order[i]][order[i+1]]
	}
	return total
}

// NearestNeighbor строит жадный порядок от start. При равенстве берется меньший индекс.
// Если из текущей точки нет конечного перехода, берется первая непосещенная,
// поэтому результат всегда перестановка.
func NearestNeighbor(matrix [][]float64, start int) []int {
	n := len(matrix)
	if n == 0 {
		return []int{}
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)
	order = append(order, start)
	visited[start] = true
	current := start

	for len(order) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if !visited[j] && matrix[current][j] < best {
				best = matrix[current][j]
				next = j
			}
		}
		if next == -1 {
			for j := 0; j < n; j++ {
				if !visited[j] {
					next = j
					break
				}
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}
	return order
}

// TwoOpt улучшает порядок разворотами order[i..k], 1 <= i < k <= n-2.
// Первое строгое улучшение применяется, и перебор начинается заново.
// Первая и последняя точки остаются на месте. При n < 4 порядок не меняется.
func TwoOpt(order []int, matrix [][]float64) []int {
	best := append([]int(nil), order...)
	n := len(best)
	if n < 4 {
		return best
	}

	bestLen := PathLength(best, matrix)
	candidate := make([]int, n)

	for improved := true; improved; {
		improved = false
	search:
		for i := 1; i <= n-3; i++ {
			for k := i + 1; k <= n-2; k++ {
				copy(candidate, best)
				reverse(candidate[i : k+1])
				if l := PathLength(candidate, matrix); l < bestLen {
					copy(best, candidate)
					bestLen = l
					improved = true
					break search
				}
			}
		}
	}
	return best
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Solve возвращает порядок обхода всех точек начиная с start
func Solve(matrix [][]float64, start int) ([]int, error) {
	if err := Validate(matrix); err != nil {
		return nil, err
	}
	if len(matrix) == 0 {
		return []int{}, nil
	}
	if start < 0 || start >= len(matrix) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidStart, start, len(matrix))
	}
	return TwoOpt(NearestNeighbor(matrix, start), matrix), nil
}
