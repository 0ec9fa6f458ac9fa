package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hk-smart-transport/internal/pkg/errors"
	"github.com/hk-smart-transport/internal/pkg/utils"
	"github.com/hk-smart-transport/internal/pkg/validator"
	"github.com/hk-smart-transport/internal/usecase"
	"github.com/hk-smart-transport/internal/usecase/dto"
	"go.uber.org/zap"
)

// NearbyHandler - поиск точек транспорта рядом
type NearbyHandler struct {
	nearbyUC *usecase.NearbyUseCase
	logger   *zap.Logger
}

func NewNearbyHandler(nearbyUC *usecase.NearbyUseCase, logger *zap.Logger) *NearbyHandler {
	return &NearbyHandler{
		nearbyUC: nearbyUC,
		logger:   logger,
	}
}

// Nearby godoc
// @Summary Точки транспорта рядом
// @Description Остановки, пирсы, стоянки такси и станции MTR в радиусе, по возрастанию расстояния
// @Tags Nearby
// @Produce json
// @Param lat query number true "Широта"
// @Param lng query number true "Долгота"
// @Param radius query number false "Радиус в метрах" default(800)
// @Param types query []string false "Категории или подстроки названий (bus, ferry, MTR...)" collectionFormat(multi)
// @Param limit query int false "Максимум результатов" default(50)
// @Success 200 {object} utils.SuccessResponse{data=dto.NearbyResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/nearby [get]
func (h *NearbyHandler) Nearby(c *fiber.Ctx) error {
	start := time.Now()

	if c.Query("lat") == "" || c.Query("lng") == "" {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": "required", "lng": "required",
		}))
	}

	var req dto.NearbyRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"query": err.Error()}))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.nearbyUC.Nearby(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Count,
		Version:  result.Version,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Sources godoc
// @Summary Состояние источников
// @Description Итоги последней сборки кеша точек по каждому источнику
// @Tags Nearby
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SourcesResponse}
// @Router /api/v1/nearby/sources [get]
func (h *NearbyHandler) Sources(c *fiber.Ctx) error {
	result := h.nearbyUC.Sources()
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   len(result.Sources),
		Version: result.Version,
	})
}

// Refresh godoc
// @Summary Пересобрать кеш точек
// @Description Опрашивает все источники заново и публикует новый индекс
// @Tags Nearby
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SourcesResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/nearby/refresh [post]
func (h *NearbyHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.nearbyUC.Refresh(c.UserContext())
	if err != nil {
		h.logger.Error("Point cache refresh failed", zap.Error(err))
		return utils.SendError(c, err)
	}

	h.logger.Info("Point cache refreshed",
		zap.Uint64("version", result.Version),
		zap.Int("points", result.Points))
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   result.Points,
		Version: result.Version,
	})
}
