// Package pedestrian строит пешеходный граф из линий GeoJSON и ищет по нему маршруты.
package pedestrian

import (
	"fmt"
	"math"

	"github.com/hk-smart-transport/internal/pkg/utils"
	"github.com/hk-smart-transport/internal/spatial"
	"github.com/paulmach/orb"
)

// DefaultMergeToleranceDeg - вершины ближе этого (по каждой оси) сливаются, около 11 м
const DefaultMergeToleranceDeg = 0.0001

// NodeID - идентификатор узла графа
type NodeID string

// Node - узел графа
type Node struct {
	ID  NodeID  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Edge - направленное ребро, вес в метрах
type Edge struct {
	From         NodeID  `json:"from"`
	To           NodeID  `json:"to"`
	WeightMeters float64 `json:"weight_m"`
}

// Options - параметры построения графа
type Options struct {
	MergeToleranceDeg float64
}

// Graph - пешеходный граф. После построения только для чтения.
type Graph struct {
	nodes     map[NodeID]Node
	adjacency map[NodeID][]Edge
	order     []NodeID
	buckets   *spatial.Grid[int]
	tolerance float64
	edges     int
}

// New создает пустой граф
func New(opts Options) *Graph {
	tol := opts.MergeToleranceDeg
	if tol <= 0 || math.IsNaN(tol) {
		tol = DefaultMergeToleranceDeg
	}
	return &Graph{
		nodes:     make(map[NodeID]Node),
		adjacency: make(map[NodeID][]Edge),
		buckets:   spatial.NewGrid[int](tol),
		tolerance: tol,
	}
}

// NodeCount - количество узлов, для nil графа 0
func (g *Graph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// EdgeCount - количество направленных ребер
func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return g.edges
}

// Node возвращает узел по идентификатору
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes возвращает узлы в порядке создания
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Neighbors возвращает исходящие ребра узла
func (g *Graph) Neighbors(id NodeID) []Edge {
	return g.adjacency[id]
}

// findOrCreateNode возвращает самый ранний узел в пределах допуска по обеим осям
// или создает новый. Кандидаты ищутся в ячейке и восьми соседних.
func (g *Graph) findOrCreateNode(lat, lng float64) NodeID {
	center := g.buckets.Key(lat, lng)
	best := -1
	for dr := int64(-1); dr <= 1; dr++ {
		for dc := int64(-1); dc <= 1; dc++ {
			for _, i := range g.buckets.Cell(spatial.CellKey{Row: center.Row + dr, Col: center.Col + dc}) {
				n := g.nodes[g.order[i]]
				if math.Abs(n.Lat-lat) < g.tolerance && math.Abs(n.Lng-lng) < g.tolerance {
					if best == -1 || i < best {
						best = i
					}
				}
			}
		}
	}
	if best >= 0 {
		return g.order[best]
	}

	id := NodeID(fmt.Sprintf("node_%d", len(g.order)))
	g.nodes[id] = Node{ID: id, Lat: lat, Lng: lng}
	g.buckets.Insert(lat, lng, len(g.order))
	g.order = append(g.order, id)
	return id
}

// AddLine добавляет линию: соседние вершины соединяются ребрами в обе стороны.
// Вес ребра считается между координатами узлов после слияния,
// сегмент, схлопнувшийся в один узел, ребра не дает.
func (g *Graph) AddLine(line orb.LineString) {
	if len(line) < 2 {
		return
	}
	prev := g.findOrCreateNode(line[0].Lat(), line[0].Lon())
	for _, pt := range line[1:] {
		cur := g.findOrCreateNode(pt.Lat(), pt.Lon())
		if cur != prev {
			a, b := g.nodes[prev], g.nodes[cur]
			w := utils.DistanceMeters(a.Lat, a.Lng, b.Lat, b.Lng)
			g.adjacency[prev] = append(g.adjacency[prev], Edge{From: prev, To: cur, WeightMeters: w})
			g.adjacency[cur] = append(g.adjacency[cur], Edge{From: cur, To: prev, WeightMeters: w})
			g.edges += 2
		}
		prev = cur
	}
}

// AddGeometry добавляет LineString или каждую часть MultiLineString,
// остальные геометрии игнорируются. Возвращает false для неподдерживаемых.
func (g *Graph) AddGeometry(geom orb.Geometry) bool {
	switch v := geom.(type) {
	case orb.LineString:
		g.AddLine(v)
	case orb.MultiLineString:
		for _, line := range v {
			g.AddLine(line)
		}
	default:
		return false
	}
	return true
}

// FindNearestNode - ближайший узел строго ближе maxDistanceMeters.
// Линейный перебор в порядке создания, при равенстве побеждает более ранний.
// maxDistanceMeters <= 0 снимает ограничение.
func (g *Graph) FindNearestNode(lat, lng, maxDistanceMeters float64) (Node, bool) {
	limit := maxDistanceMeters
	if limit <= 0 {
		limit = math.Inf(1)
	}

	var nearest Node
	found := false
	best := limit
	for _, id := range g.order {
		n := g.nodes[id]
		d := utils.DistanceMeters(lat, lng, n.Lat, n.Lng)
		if d < best {
			nearest = n
			best = d
			found = true
		}
	}
	return nearest, found
}
