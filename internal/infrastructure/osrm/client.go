package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/hk-smart-transport/internal/config"
	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"go.uber.org/zap"
)

// MaxTablePoints - ограничение публичного OSRM на размер таблицы
const MaxTablePoints = 100

type client struct {
	httpClient   *http.Client
	baseURL      string
	tableProfile string
	routeProfile string
	walkProfile  string
	tables       gcache.Cache
	logger       *zap.Logger
}

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// NewClient создает клиент OSRM. Таблицы кешируются в LRU, если задан размер кеша.
func NewClient(cfg *config.OSRMConfig, logger *zap.Logger) repository.RoutingRepository {
	c := &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		tableProfile: cfg.TableProfile,
		routeProfile: cfg.RouteProfile,
		walkProfile:  cfg.WalkProfile,
		logger:       logger,
	}
	if cfg.TableCacheSize > 0 {
		builder := gcache.New(cfg.TableCacheSize).LRU()
		if cfg.TableCacheTTL > 0 {
			builder = builder.Expiration(cfg.TableCacheTTL)
		}
		c.tables = builder.Build()
	}
	return c
}

// GetTable возвращает матрицы расстояний и времени. Недостижимые пары - +Inf.
func (c *client) GetTable(ctx context.Context, points []domain.LatLng) (*domain.TravelMatrix, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("points cannot be empty")
	}
	if len(points) > MaxTablePoints {
		return nil, fmt.Errorf("table request exceeds limit of %d points", MaxTablePoints)
	}

	coords := encodeCoordinates(points)
	if c.tables != nil {
		if cached, err := c.tables.Get(coords); err == nil {
			c.logger.Debug("OSRM table cache hit", zap.Int("points", len(points)))
			return cached.(*domain.TravelMatrix), nil
		}
	}

	url := fmt.Sprintf("%s/table/v1/%s/%s?annotations=distance,duration", c.baseURL, c.tableProfile, coords)

	var resp tableResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "Ok" {
		c.logger.Error("OSRM table returned non-OK code", zap.String("code", resp.Code), zap.String("message", resp.Message))
		return nil, fmt.Errorf("osrm table returned code: %s", resp.Code)
	}

	matrix := &domain.TravelMatrix{
		Distances: unwrapMatrix(resp.Distances),
		Durations: unwrapMatrix(resp.Durations),
	}
	if c.tables != nil {
		if err := c.tables.Set(coords, matrix); err != nil {
			c.logger.Warn("Failed to cache OSRM table", zap.Error(err))
		}
	}

	c.logger.Debug("OSRM table call successful",
		zap.Int("points", len(points)),
		zap.Int("durations_rows", len(matrix.Durations)))
	return matrix, nil
}

// GetRoute возвращает геометрию маршрута через точки в заданном порядке
func (c *client) GetRoute(ctx context.Context, points []domain.LatLng) (*domain.RouteGeometry, error) {
	return c.route(ctx, c.routeProfile, points)
}

// GetWalkingRoute - пешеходный маршрут между двумя точками
func (c *client) GetWalkingRoute(ctx context.Context, start, end domain.LatLng) (*domain.RouteGeometry, error) {
	return c.route(ctx, c.walkProfile, []domain.LatLng{start, end})
}

func (c *client) route(ctx context.Context, profile string, points []domain.LatLng) (*domain.RouteGeometry, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("route requires at least two points")
	}

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		c.baseURL, profile, encodeCoordinates(points))

	var resp routeResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		c.logger.Warn("OSRM route not found",
			zap.String("profile", profile),
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return nil, fmt.Errorf("osrm route returned code: %s", resp.Code)
	}

	r := resp.Routes[0]
	geom := &domain.RouteGeometry{
		Polyline:        make([]domain.LatLng, 0, len(r.Geometry.Coordinates)),
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}
	for _, pos := range r.Geometry.Coordinates {
		if len(pos) < 2 {
			continue
		}
		geom.Polyline = append(geom.Polyline, domain.LatLng{Lat: pos[1], Lng: pos[0]})
	}
	return geom, nil
}

func (c *client) get(ctx context.Context, url string, out interface{}) error {
	c.logger.Debug("Calling OSRM", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute OSRM request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// OSRM отвечает 400 с JSON-телом для NoRoute/NoSegment, код разбирается выше
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("OSRM returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("osrm error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode OSRM response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// encodeCoordinates - "lng,lat;lng,lat"
func encodeCoordinates(points []domain.LatLng) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.FormatFloat(p.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
	}
	return strings.Join(parts, ";")
}

func unwrapMatrix(rows [][]*float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				out[i][j] = math.Inf(1)
				continue
			}
			out[i][j] = *v
		}
	}
	return out
}
