package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger - то, что умеет проверить соединение (*pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

func runHealthRouter(e *echo.Echo, db Pinger, logger *zap.Logger) {
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("Проверка БД не прошла", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"status": false, "message": "База данных недоступна"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"status": true})
	})
}
