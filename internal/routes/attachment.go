package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/controllers"
	"claim-system/internal/services"
)

func runAttachmentRouter(
	group *echo.Group,
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
) {
	attachmentController := controllers.NewAttachmentController(attachmentService, logger)

	group.POST("/save-image", attachmentController.SaveImage)
	group.GET("/images/:orderNumber", attachmentController.ListImages)
	group.GET("/image-file/:orderNumber/:filename", attachmentController.ImageFile)
	group.POST("/open-image/:orderNumber/:filename", attachmentController.OpenImage)
	group.POST("/open-folder/:orderNumber", attachmentController.OpenFolder)
	group.GET("/folder-path/:orderNumber", attachmentController.FolderPath)
}
