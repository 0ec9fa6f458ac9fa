package usecase_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockFeedRepository - мок для FeedRepository
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) FetchJSON(ctx context.Context, url string) (interface{}, error) {
	args := m.Called(ctx, url)
	return args.Get(0), args.Error(1)
}

// MockSnapshotRepository - мок для SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (*domain.StationSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *domain.StationSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockRoutingRepository - мок для RoutingRepository
type MockRoutingRepository struct {
	mock.Mock
}

func (m *MockRoutingRepository) GetTable(ctx context.Context, points []domain.LatLng) (*domain.TravelMatrix, error) {
	args := m.Called(ctx, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelMatrix), args.Error(1)
}

func (m *MockRoutingRepository) GetRoute(ctx context.Context, points []domain.LatLng) (*domain.RouteGeometry, error) {
	args := m.Called(ctx, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteGeometry), args.Error(1)
}

func (m *MockRoutingRepository) GetWalkingRoute(ctx context.Context, start, end domain.LatLng) (*domain.RouteGeometry, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteGeometry), args.Error(1)
}

// MockCacheRepository - мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetWalkRoute(ctx context.Context, start, end domain.LatLng) (*domain.WalkRoute, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalkRoute), args.Error(1)
}

func (m *MockCacheRepository) SetWalkRoute(ctx context.Context, start, end domain.LatLng, route *domain.WalkRoute, ttl time.Duration) error {
	args := m.Called(ctx, start, end, route, ttl)
	return args.Error(0)
}

// fakeSource - источник с заданным ответом и задержкой
type fakeSource struct {
	name  string
	batch *domain.SourceBatch
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) (*domain.SourceBatch, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.batch, s.err
}

// stubbornSource не смотрит на контекст
type stubbornSource struct {
	name  string
	delay time.Duration
}

func (s stubbornSource) Name() string { return s.name }

func (s stubbornSource) Fetch(context.Context) (*domain.SourceBatch, error) {
	time.Sleep(s.delay)
	return staticBatch(domain.Point{Name: "late", Category: domain.CategoryBus, Lat: 22.3, Lng: 114.17}), nil
}

func staticBatch(points ...domain.Point) *domain.SourceBatch {
	b := domain.NewSourceBatch(domain.OriginStatic)
	b.Points = points
	return b
}
