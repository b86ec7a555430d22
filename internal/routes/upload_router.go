package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/controllers"
	"claim-system/internal/services"
)

func runUploadRouter(
	group *echo.Group,
	importService services.OrderImportServiceInterface,
	logger *zap.Logger,
) {
	uploadController := controllers.NewUploadController(importService, logger)

	group.POST("/upload-excel", uploadController.UploadExcel)
}
