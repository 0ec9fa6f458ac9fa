package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	_ "github.com/hk-smart-transport/docs"
	"github.com/hk-smart-transport/internal/config"
	"github.com/hk-smart-transport/internal/delivery/http/handler"
	"github.com/hk-smart-transport/internal/delivery/http/middleware"
	"github.com/hk-smart-transport/internal/pkg/errors"
	"github.com/hk-smart-transport/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	nearbyHandler *handler.NearbyHandler
	routeHandler  *handler.RouteHandler
	healthHandler *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	nearbyHandler *handler.NearbyHandler,
	routeHandler *handler.RouteHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "HK Smart Transport",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 << 20,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		nearbyHandler: nearbyHandler,
		routeHandler:  routeHandler,
		healthHandler: healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - fiber приложение, используется в тестах через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)

	api.Get("/nearby", s.nearbyHandler.Nearby)
	api.Get("/nearby/sources", s.nearbyHandler.Sources)
	api.Post("/nearby/refresh", s.nearbyHandler.Refresh)

	api.Post("/route/walk", s.routeHandler.Walk)
	api.Post("/route/optimize", s.routeHandler.Optimize)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler переводит ошибки fiber и панику в формат ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := errors.AsAppError(err); ok {
			return utils.SendError(c, appErr)
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
			return utils.SendError(c, err)
		}

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.New("HTTP_ERROR", err.Error(), code),
		})
	}
}
