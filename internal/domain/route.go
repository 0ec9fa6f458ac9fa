package domain

// RouteSource - кто построил пешеходный маршрут
type RouteSource string

const (
	RouteSourcePedestrianNetwork RouteSource = "pedestrian_network"
	RouteSourceOSRM              RouteSource = "osrm"
)

// WalkRoute - пешеходный маршрут между двумя точками
type WalkRoute struct {
	Polyline        []LatLng    `json:"polyline"`
	DistanceMeters  float64     `json:"distance_m"`
	DurationSeconds float64     `json:"duration_s,omitempty"`
	Source          RouteSource `json:"source"`
}

// RouteGeometry - геометрия и метрики маршрута от сервиса маршрутизации
type RouteGeometry struct {
	Polyline        []LatLng `json:"polyline"`
	DistanceMeters  float64  `json:"distance_m"`
	DurationSeconds float64  `json:"duration_s"`
}

// TravelMatrix - матрицы сервиса маршрутизации. Недостижимые пары равны +Inf.
type TravelMatrix struct {
	Distances [][]float64
	Durations [][]float64
}

// Costs возвращает durations, если они есть, иначе distances
func (m *TravelMatrix) Costs() [][]float64 {
	if m == nil {
		return nil
	}
	if len(m.Durations) > 0 {
		return m.Durations
	}
	return m.Distances
}
