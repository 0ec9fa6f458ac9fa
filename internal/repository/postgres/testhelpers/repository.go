package testhelpers

import (
	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/domain/repository"
	"github.com/hk-smart-transport/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewPointSourceForTest создает источник точек поверх тестового соединения
func NewPointSourceForTest(db *sqlx.DB, logger *zap.Logger, categories ...domain.Category) repository.PointSource {
	return postgres.NewPointSource(postgres.NewDBForTest(db, logger), categories)
}
