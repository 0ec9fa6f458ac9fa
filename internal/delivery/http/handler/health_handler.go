package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hk-smart-transport/internal/pedestrian"
	"github.com/hk-smart-transport/internal/usecase"
	"go.uber.org/zap"
)

// HealthChecker - внешняя зависимость с проверкой доступности
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler - состояние сервиса и зависимостей
type HealthHandler struct {
	points   *usecase.PointCache
	graph    *pedestrian.Graph
	checkers map[string]HealthChecker
	logger   *zap.Logger
}

func NewHealthHandler(
	points *usecase.PointCache,
	graph *pedestrian.Graph,
	checkers map[string]HealthChecker,
	logger *zap.Logger,
) *HealthHandler {
	return &HealthHandler{
		points:   points,
		graph:    graph,
		checkers: checkers,
		logger:   logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	deps := fiber.Map{}
	for name, checker := range h.checkers {
		if err := checker.Health(ctx); err != nil {
			h.logger.Warn("Dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			deps[name] = err.Error()
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	points := fiber.Map{"built": false}
	if snap := h.points.Current(); snap != nil {
		points = fiber.Map{
			"built":    true,
			"version":  snap.Version,
			"count":    len(snap.Points),
			"built_at": snap.BuiltAt,
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"time":         time.Now(),
		"points":       points,
		"graph_nodes":  h.graph.NodeCount(),
		"dependencies": deps,
	})
}
