// Package postgres - необязательный источник точек из таблицы transit_points.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hk-smart-transport/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// DB - пул соединений с базой точек. Включается через DB_ENABLED.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New открывает пул через драйвер pgx и проверяет соединение.
// При неудачном ping пул закрывается.
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}

	logger.Info("Transit points database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return &DB{DB: db, logger: logger}, nil
}

// Close закрывает пул и пишет итоговую статистику
func (db *DB) Close() error {
	stats := db.Stats()
	db.logger.Info("Closing transit points database",
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
		zap.Int("open_connections", stats.OpenConnections),
	)
	return db.DB.Close()
}

// Health - проверка для /api/v1/health
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// NewDBForTest оборачивает готовое соединение
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}
