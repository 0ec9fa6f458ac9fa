package main

// @title HK Smart Transport API
// @version 1.0.0
// @description Точки общественного транспорта Гонконга рядом с пользователем, пешеходные маршруты и порядок обхода точек.
// @description
// @description Основные возможности:
// @description - Поиск остановок автобусов и миниавтобусов, пирсов, стоянок такси и станций MTR в радиусе
// @description - Пешеходный маршрут по сети тротуаров, при отсутствии пути - через OSRM
// @description - Упорядочивание точек маршрута

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hk-smart-transport/internal/config"
	httpDelivery "github.com/hk-smart-transport/internal/delivery/http"
	"github.com/hk-smart-transport/internal/delivery/http/handler"
	"github.com/hk-smart-transport/internal/domain/repository"
	"github.com/hk-smart-transport/internal/infrastructure/feeds"
	"github.com/hk-smart-transport/internal/infrastructure/osrm"
	"github.com/hk-smart-transport/internal/pedestrian"
	"github.com/hk-smart-transport/internal/pkg/logger"
	"github.com/hk-smart-transport/internal/repository/cache"
	"github.com/hk-smart-transport/internal/repository/postgres"
	"github.com/hk-smart-transport/internal/repository/snapshot"
	"github.com/hk-smart-transport/internal/usecase"
	"github.com/hk-smart-transport/internal/worker"
	"github.com/hk-smart-transport/internal/worker/refresh"
	"go.uber.org/zap"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting HK Smart Transport")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	checkers := map[string]handler.HealthChecker{}

	// 3. Optional Redis (кеш пешеходных маршрутов OSRM)
	var routeCache repository.CacheRepository
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		routeCache = cache.NewCacheRepository(redisClient)
		checkers["redis"] = redisClient
	}

	// 4. Optional PostgreSQL (дополнительный источник точек)
	var db *postgres.DB
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		checkers["postgres"] = db
	}

	// 5. Point sources
	catalog, err := config.LoadSourceCatalog(cfg.Sources.File)
	if err != nil {
		log.Fatal("Failed to load sources catalog", zap.String("file", cfg.Sources.File), zap.Error(err))
	}
	catalog.ApplyDefaultTimeouts(cfg.Sources.RequestTimeout, cfg.Sources.RailRequestTimeout)

	feedClient := feeds.NewClient(cfg.Sources.RailRequestTimeout, log)
	snapshots := snapshot.NewFileRepository(cfg.Sources.RailSnapshotPath, log)

	sources := usecase.BuildSources(catalog, feedClient, snapshots, cfg.Sources.RailSnapshotStale, log)
	if db != nil {
		sources = append(sources, postgres.NewPointSource(db, nil))
	}

	var staleness []refresh.StalenessChecker
	for _, src := range sources {
		if rail, ok := src.(*usecase.RailSource); ok {
			staleness = append(staleness, rail)
		}
	}

	log.Info("Point sources configured", zap.Int("count", len(sources)))

	// 6. Aggregation and spatial index
	aggregator := usecase.NewAggregator(cfg.Sources.RequestTimeout, log)
	points := usecase.NewPointCache(aggregator, sources, cfg.Index.CellSizeDeg, log)

	if cfg.Index.WarmOnStart {
		warmCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.Sources.RailRequestTimeout)
		if _, err := points.Warm(warmCtx); err != nil {
			log.Warn("Point cache warm-up failed, will build on first request", zap.Error(err))
		}
		cancel()
	}

	// 7. Pedestrian network
	var graph *pedestrian.Graph
	if cfg.Pedestrian.NetworkFile != "" {
		g, stats, err := pedestrian.LoadFile(cfg.Pedestrian.NetworkFile, pedestrian.Options{
			MergeToleranceDeg: cfg.Pedestrian.MergeToleranceDeg,
		})
		if err != nil {
			log.Warn("Pedestrian network unavailable, walking routes use OSRM only",
				zap.String("file", cfg.Pedestrian.NetworkFile),
				zap.Error(err))
		} else {
			graph = g
			log.Info("Pedestrian network loaded",
				zap.Int("features", stats.Features),
				zap.Int("lines", stats.Lines),
				zap.Int("skipped", stats.Skipped),
				zap.Int("nodes", stats.Nodes),
				zap.Int("edges", stats.Edges))
		}
	}

	// 8. Routing service
	var routing repository.RoutingRepository
	if cfg.OSRM.BaseURL != "" {
		routing = osrm.NewClient(&cfg.OSRM, log)
	}

	// 9. Use cases and handlers
	nearbyUC := usecase.NewNearbyUseCase(points, log)
	routeUC := usecase.NewRouteUseCase(graph, routing, routeCache, usecase.RouteOptions{
		SnapDistanceMeters: cfg.Pedestrian.SnapDistanceM,
		CacheTTL:           cfg.Cache.RouteCacheTTL,
	}, log)

	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewNearbyHandler(nearbyUC, log),
		handler.NewRouteHandler(routeUC, log),
		handler.NewHealthHandler(points, graph, checkers, log),
	)

	// 10. Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var workers *worker.WorkerManager
	if cfg.Worker.Enabled {
		workers = worker.NewWorkerManager(log)
		workers.Register(refresh.NewSnapshotRefreshWorker(
			points,
			staleness,
			cfg.Worker.SnapshotCheckInterval,
			cfg.Worker.PointsMaxAge,
			log,
		))
		if err := workers.Start(workerCtx); err != nil {
			log.Error("Failed to start workers", zap.Error(err))
		}
	}

	// 11. HTTP server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if workers != nil {
		if err := workers.Stop(); err != nil {
			log.Error("Workers shutdown error", zap.Error(err))
		}
	}
	stopWorkers()

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
