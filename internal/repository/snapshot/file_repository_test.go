package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("missing file", func(t *testing.T) {
		repo := NewFileRepository(filepath.Join(t.TempDir(), "none.json"), logger)
		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "mtr.json")
		repo := NewFileRepository(path, logger)

		updated := time.Unix(1_700_000_000, 0)
		err := repo.Save(ctx, &domain.StationSnapshot{
			UpdatedAt: updated,
			Stations: []domain.SnapshotStation{
				{Name: "Central", Lat: 22.2819, Lng: 114.1582},
				{Name: "Admiralty", Lat: 22.2793, Lng: 114.1653},
			},
		})
		require.NoError(t, err)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.True(t, snap.UpdatedAt.Equal(updated))
		assert.Len(t, snap.Stations, 2)
		assert.Equal(t, "Central", snap.Stations[0].Name)

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must not be left behind")
	})

	t.Run("legacy array uses mtime", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mtr.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name_en":"Central","lat":22.2819,"lng":114.1582}]`), 0o644))
		mtime := time.Now().Add(-20 * 24 * time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(path, mtime, mtime))

		snap, err := NewFileRepository(path, logger).Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, "Central", snap.Stations[0].Name)
		assert.WithinDuration(t, mtime, snap.UpdatedAt, time.Second)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mtr.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"stations": [`), 0o644))

		snap, err := NewFileRepository(path, logger).Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("overwrite existing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mtr.json")
		repo := NewFileRepository(path, logger)

		require.NoError(t, repo.Save(ctx, &domain.StationSnapshot{UpdatedAt: time.Now(), Stations: []domain.SnapshotStation{{Name: "A"}}}))
		require.NoError(t, repo.Save(ctx, &domain.StationSnapshot{UpdatedAt: time.Now(), Stations: []domain.SnapshotStation{{Name: "B"}, {Name: "C"}}}))

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Stations, 2)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		repo := NewFileRepository(filepath.Join(t.TempDir(), "mtr.json"), logger)
		assert.Error(t, repo.Save(ctx, nil))
	})
}
