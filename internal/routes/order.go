package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/controllers"
	"claim-system/internal/services"
)

func runOrderRouter(group *echo.Group, orderService services.OrderServiceInterface, logger *zap.Logger) {
	orderCtrl := controllers.NewOrderController(orderService, logger)
	logCtrl := controllers.NewLogController(orderService, logger)
	{
		group.GET("/orders", orderCtrl.GetOrders)
		group.POST("/orders", orderCtrl.CreateOrder)
		group.GET("/orders/:id", orderCtrl.FindOrder)
		group.PATCH("/orders/:id", orderCtrl.UpdateOrder)

		group.PATCH("/orders/:id/progress", orderCtrl.UpdateProgress)
		group.PATCH("/orders/:id/processing", orderCtrl.UpdateProcessing)
		group.PATCH("/orders/:id/gameCodeStatus", orderCtrl.UpdateGameCodeStatus)
		group.PATCH("/orders/:id/memo", orderCtrl.UpdateMemo)

		group.GET("/logs", logCtrl.GetLogs)
		group.GET("/orders/:id/logs", logCtrl.GetOrderLogs)
	}
}
