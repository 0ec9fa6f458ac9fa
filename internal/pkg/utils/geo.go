package utils

import (
	"math"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MetersPerDegreeLat - длина градуса широты, используется для bbox
const MetersPerDegreeLat = 111320.0

const minCosLat = 1e-4

// DistanceMeters - расстояние по большому кругу в метрах
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2})
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// BoundingBox - прямоугольник вокруг точки, покрывающий круг радиуса radiusMeters.
// Косинус широты ограничен снизу, чтобы не делить на ноль у полюсов.
func BoundingBox(lat, lng, radiusMeters float64) domain.BoundingBox {
	dLat := radiusMeters / MetersPerDegreeLat
	cosLat := math.Max(math.Cos(lat*math.Pi/180.0), minCosLat)
	dLng := radiusMeters / (MetersPerDegreeLat * cosLat)

	return domain.BoundingBox{
		MinLat: lat - dLat,
		MinLng: lng - dLng,
		MaxLat: lat + dLat,
		MaxLng: lng + dLng,
	}
}
