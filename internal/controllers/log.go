package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/services"
	"claim-system/pkg/utils"
)

// LogController - чтение журнала изменений. Записи создаёт только OrderService.
type LogController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewLogController(orderService services.OrderServiceInterface, logger *zap.Logger) *LogController {
	return &LogController{orderService: orderService, logger: logger}
}

func (c *LogController) GetLogs(ctx echo.Context) error {
	logs, err := c.orderService.GetLogs(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, logs)
}

func (c *LogController) GetOrderLogs(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	logs, err := c.orderService.GetOrderLogs(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, logs)
}
