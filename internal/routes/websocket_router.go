package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/controllers"
	"claim-system/pkg/websocket"
)

func runWebSocketRouter(group *echo.Group, hub *websocket.Hub, allowedOrigins []string, logger *zap.Logger) {
	wsCtrl := controllers.NewWebSocketController(hub, allowedOrigins, logger)
	group.GET("/ws", wsCtrl.ServeWs)
}
