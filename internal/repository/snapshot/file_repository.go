package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"go.uber.org/zap"
)

type fileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFileRepository - снапшот станций в JSON-файле
func NewFileRepository(path string, logger *zap.Logger) repository.SnapshotRepository {
	return &fileRepository{path: path, logger: logger}
}

// Load возвращает nil без ошибки, если файла нет или он поврежден.
// При отсутствии метки времени в файле используется mtime.
func (r *fileRepository) Load(ctx context.Context) (*domain.StationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap domain.StationSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warn("Station snapshot is corrupt, ignoring",
			zap.String("path", r.path),
			zap.Error(err))
		return nil, nil
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = info.ModTime()
	}
	return &snap, nil
}

// Save атомарно заменяет файл: запись во временный файл рядом и rename
func (r *fileRepository) Save(ctx context.Context, snap *domain.StationSnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	r.logger.Debug("Station snapshot saved",
		zap.String("path", r.path),
		zap.Int("stations", len(snap.Stations)))
	return nil
}
