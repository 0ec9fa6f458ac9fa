package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, 0.005, cfg.Index.CellSizeDeg)
	assert.Equal(t, 0.0001, cfg.Pedestrian.MergeToleranceDeg)
	assert.Equal(t, 500.0, cfg.Pedestrian.SnapDistanceM)
	assert.Equal(t, 14*24*time.Hour, cfg.Sources.RailSnapshotStale)
	assert.Equal(t, 10*time.Second, cfg.Sources.RequestTimeout)
	assert.Equal(t, "foot", cfg.OSRM.WalkProfile)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadFile_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_PORT=9090\nINDEX_CELL_SIZE_DEG=0.01\nOSRM_BASE_URL=http://osrm.local/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("RAIL_SNAPSHOT_STALE_DAYS", "3")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.01, cfg.Index.CellSizeDeg)
	assert.Equal(t, "http://osrm.local", cfg.OSRM.BaseURL)
	assert.Equal(t, 3*24*time.Hour, cfg.Sources.RailSnapshotStale)
}

func TestLoadFile_InvalidCellSize(t *testing.T) {
	t.Setenv("INDEX_CELL_SIZE_DEG", "0")

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadFile_LogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "Console")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)

	t.Setenv("LOG_FORMAT", "xml")
	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadSourceCatalog_Default(t *testing.T) {
	catalog, err := LoadSourceCatalog("")
	require.NoError(t, err)

	names := make([]string, 0, len(catalog.Sources))
	for _, s := range catalog.Sources {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"kmb-bus", "minibus", "ferry", "taxi", "mtr"}, names)

	bus := catalog.Sources[0]
	assert.Equal(t, SourceKindFeed, bus.Kind)
	assert.Equal(t, 10*time.Second, bus.Timeout)
	assert.Equal(t, []string{"long", "lng", "lon"}, bus.Fields.Lng)

	assert.Len(t, catalog.Sources[1].Points, 5)
	assert.Len(t, catalog.Sources[2].Points, 7)
	assert.Len(t, catalog.Sources[3].Points, 5)

	mtr := catalog.Sources[4]
	assert.Equal(t, SourceKindRail, mtr.Kind)
	assert.Len(t, mtr.Points, 20)
	assert.Equal(t, "data.*", mtr.RecordsPath)
}

func TestParseSourceCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "sources: []"},
		{"unknown kind", "sources:\n  - {name: a, kind: ftp, category: bus}"},
		{"unknown category", "sources:\n  - {name: a, kind: static, category: tram, points: [{name: x, lat: 1, lng: 1}]}"},
		{"feed without url", "sources:\n  - {name: a, kind: feed, category: bus, fields: {lat: [lat], lng: [lng]}}"},
		{"static without points", "sources:\n  - {name: a, kind: static, category: taxi}"},
		{"bad latitude", "sources:\n  - {name: a, kind: static, category: taxi, points: [{name: x, lat: 95, lng: 1}]}"},
		{"duplicate names", "sources:\n  - {name: a, kind: static, category: taxi, points: [{name: x, lat: 1, lng: 1}]}\n  - {name: a, kind: static, category: bus, points: [{name: y, lat: 1, lng: 1}]}"},
		{"not yaml", "sources: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSourceCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSourceCatalog_ApplyDefaultTimeouts(t *testing.T) {
	catalog := &SourceCatalog{Sources: []SourceSpec{
		{Name: "bus", Kind: SourceKindFeed},
		{Name: "mtr", Kind: SourceKindRail},
		{Name: "ferry", Kind: SourceKindStatic},
		{Name: "slow", Kind: SourceKindFeed, Timeout: 3 * time.Second},
	}}

	catalog.ApplyDefaultTimeouts(10*time.Second, 15*time.Second)

	assert.Equal(t, 10*time.Second, catalog.Sources[0].Timeout)
	assert.Equal(t, 15*time.Second, catalog.Sources[1].Timeout)
	assert.Zero(t, catalog.Sources[2].Timeout)
	assert.Equal(t, 3*time.Second, catalog.Sources[3].Timeout)
}
