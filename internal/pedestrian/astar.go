package pedestrian

import (
	"container/heap"
	"math"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/pkg/utils"
)

// Path - найденный путь по узлам
type Path struct {
	Nodes       []Node
	TotalMeters float64
}

// Route - маршрут между произвольными координатами
type Route struct {
	Polyline       []domain.LatLng
	DistanceMeters float64
	StartNode      NodeID
	EndNode        NodeID
}

type queueItem struct {
	id    NodeID
	f     float64
	seq   int
	index int
}

// openQueue - min-heap по f, при равенстве раньше добавленный
type openQueue []*queueItem

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

func (g *Graph) heuristic(id NodeID, goal Node) float64 {
	n := g.nodes[id]
	return utils.DistanceMeters(n.Lat, n.Lng, goal.Lat, goal.Lng)
}

// ShortestPath ищет кратчайший путь A* с эвристикой по большому кругу.
// false - узел неизвестен или цель недостижима.
func (g *Graph) ShortestPath(start, end NodeID) (Path, bool) {
	startNode, ok := g.nodes[start]
	if !ok {
		return Path{}, false
	}
	goal, ok := g.nodes[end]
	if !ok {
		return Path{}, false
	}
	if start == end {
		return Path{Nodes: []Node{startNode}}, true
	}

	gScore := map[NodeID]float64{start: 0}
	cameFrom := make(map[NodeID]NodeID)
	closed := make(map[NodeID]struct{})

	open := &openQueue{}
	seq := 0
	heap.Push(open, &queueItem{id: start, f: g.heuristic(start, goal), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(*queueItem)
		if _, done := closed[current.id]; done {
			continue
		}
		if current.id == end {
			return g.reconstruct(cameFrom, start, end, gScore[end]), true
		}
		closed[current.id] = struct{}{}

		for _, e := range g.adjacency[current.id] {
			if _, done := closed[e.To]; done {
				continue
			}
			tentative := gScore[current.id] + e.WeightMeters
			known, seen := gScore[e.To]
			if !seen {
				known = math.Inf(1)
			}
			if tentative < known {
				gScore[e.To] = tentative
				cameFrom[e.To] = current.id
				seq++
				heap.Push(open, &queueItem{id: e.To, f: tentative + g.heuristic(e.To, goal), seq: seq})
			}
		}
	}

	return Path{}, false
}

func (g *Graph) reconstruct(cameFrom map[NodeID]NodeID, start, end NodeID, total float64) Path {
	ids := []NodeID{end}
	for id := end; id != start; {
		id = cameFrom[id]
		ids = append(ids, id)
	}

	nodes := make([]Node, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		nodes = append(nodes, g.nodes[ids[i]])
	}
	return Path{Nodes: nodes, TotalMeters: total}
}

// FindRoute привязывает концы к ближайшим узлам в пределах snapMeters и ищет путь.
// false означает, что вызывающий должен использовать запасной маршрутизатор.
func (g *Graph) FindRoute(startLat, startLng, endLat, endLng, snapMeters float64) (Route, bool) {
	if g == nil || g.NodeCount() == 0 {
		return Route{}, false
	}
	from, ok := g.FindNearestNode(startLat, startLng, snapMeters)
	if !ok {
		return Route{}, false
	}
	to, ok := g.FindNearestNode(endLat, endLng, snapMeters)
	if !ok {
		return Route{}, false
	}

	path, ok := g.ShortestPath(from.ID, to.ID)
	if !ok {
		return Route{}, false
	}

	polyline := make([]domain.LatLng, 0, len(path.Nodes))
	for _, n := range path.Nodes {
		polyline = append(polyline, domain.LatLng{Lat: n.Lat, Lng: n.Lng})
	}
	return Route{
		Polyline:       polyline,
		DistanceMeters: path.TotalMeters,
		StartNode:      from.ID,
		EndNode:        to.ID,
	}, true
}
