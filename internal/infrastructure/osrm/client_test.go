package osrm

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hk-smart-transport/internal/config"
	"github.com/hk-smart-transport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var twoPoints = []domain.LatLng{
	{Lat: 22.2837, Lng: 114.1592},
	{Lat: 22.2976, Lng: 114.1722},
}

func testConfig(baseURL string) *config.OSRMConfig {
	return &config.OSRMConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5,
		TableProfile:   "driving",
		RouteProfile:   "driving",
		WalkProfile:    "foot",
		TableCacheSize: 16,
		TableCacheTTL:  time.Minute,
	}
}

func TestClient_GetTable(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/table/v1/driving/114.159200,22.283700;114.172200,22.297600", r.URL.Path)
			assert.Equal(t, "distance,duration", r.URL.Query().Get("annotations"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"code":"Ok","distances":[[0,2100.5],[null,0]],"durations":[[0,300],[null,0]]}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		matrix, err := c.GetTable(context.Background(), twoPoints)
		require.NoError(t, err)
		assert.Equal(t, 2100.5, matrix.Distances[0][1])
		assert.Equal(t, 300.0, matrix.Durations[0][1])
		assert.True(t, math.IsInf(matrix.Durations[1][0], 1))

		_, err = c.GetTable(context.Background(), twoPoints)
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load(), "second call must be served from cache")
	})

	t.Run("non-OK code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":"InvalidQuery","message":"bad coordinates"}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)
		result, err := c.GetTable(context.Background(), twoPoints)
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "InvalidQuery")
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)
		_, err := c.GetTable(context.Background(), twoPoints)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("invalid input", func(t *testing.T) {
		c := NewClient(testConfig("http://127.0.0.1:1"), logger)

		_, err := c.GetTable(context.Background(), nil)
		assert.Error(t, err)

		_, err = c.GetTable(context.Background(), make([]domain.LatLng, MaxTablePoints+1))
		assert.Error(t, err)
	})

	t.Run("cache disabled", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte(`{"code":"Ok","durations":[[0,1],[1,0]]}`))
		}))
		defer server.Close()

		cfg := testConfig(server.URL)
		cfg.TableCacheSize = 0
		c := NewClient(cfg, logger)

		for i := 0; i < 2; i++ {
			_, err := c.GetTable(context.Background(), twoPoints)
			require.NoError(t, err)
		}
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestClient_Routes(t *testing.T) {
	logger := zap.NewNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		switch {
		case strings.HasPrefix(r.URL.Path, "/route/v1/foot/"):
			w.Write([]byte(`{"code":"Ok","routes":[{"distance":1800,"duration":1300,
				"geometry":{"type":"LineString","coordinates":[[114.1592,22.2837],[114.1650,22.2900],[114.1722,22.2976]]}}]}`))
		case strings.HasPrefix(r.URL.Path, "/route/v1/driving/"):
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), logger)

	t.Run("walking route", func(t *testing.T) {
		geom, err := c.GetWalkingRoute(context.Background(), twoPoints[0], twoPoints[1])
		require.NoError(t, err)
		assert.Equal(t, 1800.0, geom.DistanceMeters)
		assert.Equal(t, 1300.0, geom.DurationSeconds)
		require.Len(t, geom.Polyline, 3)
		assert.Equal(t, domain.LatLng{Lat: 22.2837, Lng: 114.1592}, geom.Polyline[0])
		assert.Equal(t, domain.LatLng{Lat: 22.2976, Lng: 114.1722}, geom.Polyline[2])
	})

	t.Run("no route", func(t *testing.T) {
		geom, err := c.GetRoute(context.Background(), twoPoints)
		assert.Error(t, err)
		assert.Nil(t, geom)
		assert.Contains(t, err.Error(), "NoRoute")
	})

	t.Run("too few points", func(t *testing.T) {
		_, err := c.GetRoute(context.Background(), twoPoints[:1])
		assert.Error(t, err)
	})
}

func TestClient_ContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetTable(ctx, twoPoints)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUnwrapMatrix(t *testing.T) {
	one := 1.0
	assert.Nil(t, unwrapMatrix(nil))

	out := unwrapMatrix([][]*float64{{nil, &one}})
	assert.True(t, math.IsInf(out[0][0], 1))
	assert.Equal(t, 1.0, out[0][1])
}
