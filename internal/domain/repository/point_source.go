package repository

import (
	"context"

	"github.com/hk-smart-transport/internal/domain"
)

// PointSource - один источник транспортных точек
type PointSource interface {
	// Name - уникальное имя источника
	Name() string

	// Fetch возвращает точки источника. Ошибка означает полный отказ источника.
	Fetch(ctx context.Context) (*domain.SourceBatch, error)
}

// FeedRepository загружает сырые JSON фиды
type FeedRepository interface {
	// FetchJSON выполняет GET и декодирует ответ (числа как json.Number)
	FetchJSON(ctx context.Context, url string) (interface{}, error)
}

// SnapshotRepository хранит снапшоты станций
type SnapshotRepository interface {
	// Load возвращает снапшот. Без updated_at время берется из mtime файла.
	// nil без ошибки, если снапшота нет или он поврежден.
	Load(ctx context.Context) (*domain.StationSnapshot, error)

	// Save атомарно записывает снапшот
	Save(ctx context.Context, snapshot *domain.StationSnapshot) error
}
