package dto

import "github.com/hk-smart-transport/internal/domain"

// WalkRequest - запрос пешеходного маршрута
type WalkRequest struct {
	Start domain.LatLng `json:"start"`
	End   domain.LatLng `json:"end"`
}

// WalkResponse - пешеходный маршрут
type WalkResponse struct {
	Polyline        []domain.LatLng `json:"polyline"`
	DistanceMeters  float64         `json:"distance_m"`
	DurationSeconds float64         `json:"duration_s"`
	WalkMinutes     int             `json:"walk_min"`
	Source          string          `json:"source"`
}

// OptimizeRequest - запрос на упорядочивание точек маршрута.
// Matrix опциональна: без нее матрица берется у сервиса маршрутизации.
type OptimizeRequest struct {
	Points []domain.LatLng `json:"points" validate:"required,min=1,max=25,dive"`
	Matrix [][]float64     `json:"matrix,omitempty"`
	Start  int             `json:"start" validate:"min=0"`
}

// OptimizeResponse - упорядоченный маршрут
type OptimizeResponse struct {
	OrderedIndex    []int           `json:"ordered_index"`
	Optimized       []domain.LatLng `json:"optimized"`
	TotalCost       *float64        `json:"total_cost,omitempty"`
	MatrixSource    string          `json:"matrix_source"`
	Polyline        []domain.LatLng `json:"polyline,omitempty"`
	DistanceMeters  float64         `json:"distance_m,omitempty"`
	DurationSeconds float64         `json:"duration_s,omitempty"`
	Warning         string          `json:"warning,omitempty"`
}
