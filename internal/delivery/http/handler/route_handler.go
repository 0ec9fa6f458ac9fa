package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hk-smart-transport/internal/pkg/errors"
	"github.com/hk-smart-transport/internal/pkg/utils"
	"github.com/hk-smart-transport/internal/pkg/validator"
	"github.com/hk-smart-transport/internal/usecase"
	"github.com/hk-smart-transport/internal/usecase/dto"
	"go.uber.org/zap"
)

// RouteHandler - пешеходные маршруты и порядок обхода точек
type RouteHandler struct {
	routeUC *usecase.RouteUseCase
	logger  *zap.Logger
}

func NewRouteHandler(routeUC *usecase.RouteUseCase, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routeUC: routeUC,
		logger:  logger,
	}
}

// Walk godoc
// @Summary Пешеходный маршрут
// @Description Кратчайший путь по пешеходной сети, при отсутствии пути - маршрут OSRM foot
// @Tags Route
// @Accept json
// @Produce json
// @Param request body dto.WalkRequest true "Начало и конец маршрута"
// @Success 200 {object} utils.SuccessResponse{data=dto.WalkResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/route/walk [post]
func (h *RouteHandler) Walk(c *fiber.Ctx) error {
	var req dto.WalkRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"body": "invalid JSON"}))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.routeUC.Walk(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Optimize godoc
// @Summary Порядок обхода точек
// @Description Ближайший сосед и 2-opt по матрице из запроса или от сервиса маршрутизации
// @Tags Route
// @Accept json
// @Produce json
// @Param request body dto.OptimizeRequest true "Точки, необязательная матрица стоимостей и стартовый индекс"
// @Success 200 {object} utils.SuccessResponse{data=dto.OptimizeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/route/optimize [post]
func (h *RouteHandler) Optimize(c *fiber.Ctx) error {
	var req dto.OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"body": "invalid JSON"}))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.routeUC.Optimize(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.OrderedIndex),
	})
}
