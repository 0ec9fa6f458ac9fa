package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hk-smart-transport/internal/config"
	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const busURL = "https://feeds.test/kmb/stop"
const mtrURL = "https://feeds.test/mtr/stations"

func busSpec() config.SourceSpec {
	return config.SourceSpec{
		Name:        "kmb-bus",
		Kind:        config.SourceKindFeed,
		Category:    "bus",
		URL:         busURL,
		RecordsPath: "data",
		Timeout:     2 * time.Second,
		Fields: config.FieldAliases{
			Lat:  []string{"lat"},
			Lng:  []string{"long", "lng"},
			Name: []string{"name_en"},
		},
	}
}

func railSpec() config.SourceSpec {
	return config.SourceSpec{
		Name:        "mtr",
		Kind:        config.SourceKindRail,
		Category:    "rail",
		URL:         mtrURL,
		RecordsPath: "data.*",
		Fields: config.FieldAliases{
			Lat:  []string{"lat"},
			Lng:  []string{"lng"},
			Name: []string{"name_en"},
		},
		Points: []config.StaticPoint{
			{Name: "Central Station", Lat: 22.2837, Lng: 114.1592},
			{Name: "Admiralty Station", Lat: 22.2766, Lng: 114.1637},
		},
	}
}

func TestFeedSource_Fetch(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("valid and malformed records", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, busURL).Return(decode(t, `{"data": [
			{"lat": "22.2976", "long": "114.1722", "name_en": "TST"},
			{"lat": "oops", "long": "114.1722", "name_en": "bad"},
			{"long": "114.1722", "name_en": "no lat"},
			"not a record"
		]}`), nil)

		src := usecase.NewFeedSource(busSpec(), feeds, logger)
		assert.Equal(t, "kmb-bus", src.Name())
		assert.Equal(t, 2*time.Second, src.Timeout())

		batch, err := src.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginLive, batch.Origin)
		require.Len(t, batch.Points, 1)
		assert.Equal(t, domain.CategoryBus, batch.Points[0].Category)
		assert.Equal(t, map[domain.SkipReason]int{
			domain.SkipInvalidLat:  1,
			domain.SkipMissingLat:  1,
			domain.SkipNotAnObject: 1,
		}, batch.Skipped)
		feeds.AssertExpectations(t)
	})

	t.Run("transport error", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, busURL).Return(nil, errors.New("status 403"))

		_, err := usecase.NewFeedSource(busSpec(), feeds, logger).Fetch(ctx)
		assert.ErrorContains(t, err, "status 403")
	})

	t.Run("records path missing", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, busURL).Return(decode(t, `{"message": "maintenance"}`), nil)

		_, err := usecase.NewFeedSource(busSpec(), feeds, logger).Fetch(ctx)
		assert.ErrorContains(t, err, "records path")
	})
}

func TestStaticSource_Fetch(t *testing.T) {
	points := usecase.StaticPoints(config.SourceSpec{
		Category: "ferry",
		Points:   []config.StaticPoint{{Name: "Star Ferry Central", Lat: 22.2847, Lng: 114.1589}},
	})
	src := usecase.NewStaticSource("ferry", points)

	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OriginStatic, batch.Origin)
	assert.Equal(t, []domain.Point{{Name: "Star Ferry Central", Category: domain.CategoryFerry, Lat: 22.2847, Lng: 114.1589}}, batch.Points)

	batch.Points[0].Name = "changed"
	again, _ := src.Fetch(context.Background())
	assert.Equal(t, "Star Ferry Central", again.Points[0].Name)
}

const liveStations = `{"data": {"TST": {"name_en": "Tsim Sha Tsui Station", "lat": 22.2976, "lng": 114.1722}}}`

func snapshotAged(age time.Duration) *domain.StationSnapshot {
	return &domain.StationSnapshot{
		UpdatedAt: time.Now().Add(-age),
		Stations:  []domain.SnapshotStation{{Name: "Mong Kok Station", Lat: 22.3193, Lng: 114.1694}},
	}
}

func newRail(feeds *MockFeedRepository, snaps *MockSnapshotRepository) *usecase.RailSource {
	logger := zap.NewNop()
	spec := railSpec()
	return usecase.NewRailSource(
		usecase.NewFeedSource(spec, feeds, logger),
		snaps,
		14*24*time.Hour,
		usecase.StaticPoints(spec),
		logger,
	)
}

func TestRailSource_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh snapshot used without network", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		snaps := &MockSnapshotRepository{}
		snaps.On("Load", mock.Anything).Return(snapshotAged(time.Hour), nil)

		batch, err := newRail(feeds, snaps).Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginSnapshot, batch.Origin)
		require.Len(t, batch.Points, 1)
		assert.Equal(t, "Mong Kok Station", batch.Points[0].Name)
		assert.Equal(t, domain.CategoryRail, batch.Points[0].Category)
		feeds.AssertNotCalled(t, "FetchJSON", mock.Anything, mock.Anything)
	})

	t.Run("stale snapshot refreshed from live feed", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, mtrURL).Return(decode(t, liveStations), nil)
		snaps := &MockSnapshotRepository{}
		snaps.On("Load", mock.Anything).Return(snapshotAged(30*24*time.Hour), nil)
		snaps.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.StationSnapshot) bool {
			return len(s.Stations) == 1 && s.Stations[0].Name == "Tsim Sha Tsui Station" &&
				time.Since(s.UpdatedAt) < time.Minute
		})).Return(nil)

		batch, err := newRail(feeds, snaps).Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginLive, batch.Origin)
		assert.Equal(t, "Tsim Sha Tsui Station", batch.Points[0].Name)
		snaps.AssertExpectations(t)
	})

	t.Run("missing snapshot fetched and persisted", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, mtrURL).Return(decode(t, liveStations), nil)
		snaps := &MockSnapshotRepository{}
		snaps.On("Load", mock.Anything).Return(nil, nil)
		snaps.On("Save", mock.Anything, mock.Anything).Return(errors.New("read-only fs"))

		batch, err := newRail(feeds, snaps).Fetch(ctx)
		require.NoError(t, err, "persist failure is not fatal")
		assert.Equal(t, domain.OriginLive, batch.Origin)
	})

	t.Run("stale snapshot used when live fails", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, mtrURL).Return(nil, errors.New("timeout"))
		snaps := &MockSnapshotRepository{}
		snaps.On("Load", mock.Anything).Return(snapshotAged(30*24*time.Hour), nil)

		batch, err := newRail(feeds, snaps).Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginStaleSnapshot, batch.Origin)
		assert.Equal(t, "Mong Kok Station", batch.Points[0].Name)
		snaps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("built-in list as last resort", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, mtrURL).Return(decode(t, `{"data": {}}`), nil)
		snaps := &MockSnapshotRepository{}
		snaps.On("Load", mock.Anything).Return(nil, errors.New("permission denied"))

		batch, err := newRail(feeds, snaps).Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginBuiltin, batch.Origin)
		assert.Len(t, batch.Points, 2)
	})

	t.Run("empty snapshot treated as missing", func(t *testing.T) {
		feeds := &MockFeedRepository{}
		feeds.On("FetchJSON", mock.Anything, mtrURL).Return(nil, errors.New("down"))
		snaps := &MockSnapshotRepository{}
		snaps.On("Load", mock.Anything).Return(&domain.StationSnapshot{UpdatedAt: time.Now()}, nil)

		batch, err := newRail(feeds, snaps).Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OriginBuiltin, batch.Origin)
	})
}

func TestRailSource_IsStale(t *testing.T) {
	snaps := &MockSnapshotRepository{}
	snaps.On("Load", mock.Anything).Return(snapshotAged(15*24*time.Hour), nil).Once()
	snaps.On("Load", mock.Anything).Return(snapshotAged(time.Hour), nil).Once()
	snaps.On("Load", mock.Anything).Return(nil, nil).Once()

	rail := newRail(&MockFeedRepository{}, snaps)
	assert.True(t, rail.IsStale(context.Background()))
	assert.False(t, rail.IsStale(context.Background()))
	assert.True(t, rail.IsStale(context.Background()))
}

func TestBuildSources(t *testing.T) {
	catalog, err := config.LoadSourceCatalog("")
	require.NoError(t, err)

	sources := usecase.BuildSources(catalog, &MockFeedRepository{}, &MockSnapshotRepository{}, 0, zap.NewNop())
	require.Len(t, sources, 5)

	names := []string{}
	for _, s := range sources {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"kmb-bus", "minibus", "ferry", "taxi", "mtr"}, names)
	assert.IsType(t, &usecase.FeedSource{}, sources[0])
	assert.IsType(t, &usecase.StaticSource{}, sources[1])
	assert.IsType(t, &usecase.RailSource{}, sources[4])
}
