package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/dto"
	"claim-system/internal/services"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/utils"
	"claim-system/pkg/validation"
)

const imageUploadContext = "order_image"

type AttachmentController struct {
	attachmentService services.AttachmentServiceInterface
	logger            *zap.Logger
}

func NewAttachmentController(
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
) *AttachmentController {
	return &AttachmentController{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

func orderNumberParam(ctx echo.Context) (string, error) {
	n := strings.TrimSpace(ctx.Param("orderNumber"))
	if n == "" {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "Не указан номер заказа", nil, nil)
	}
	return n, nil
}

func (c *AttachmentController) SaveImage(ctx echo.Context) error {
	orderNumber := strings.TrimSpace(ctx.FormValue("orderNumber"))
	if orderNumber == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не указан номер заказа", nil, nil),
			c.logger,
		)
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Изображение не было передано", nil, nil),
			c.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil),
			c.logger,
		)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, imageUploadContext); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), nil, nil),
			c.logger,
		)
	}

	saved, err := c.attachmentService.SaveImage(ctx.Request().Context(), orderNumber, src)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (c *AttachmentController) ListImages(ctx echo.Context) error {
	orderNumber, err := orderNumberParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	names, err := c.attachmentService.ListImages(ctx.Request().Context(), orderNumber)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, names)
}

func (c *AttachmentController) ImageFile(ctx echo.Context) error {
	orderNumber, err := orderNumberParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	path, err := c.attachmentService.ImagePath(ctx.Request().Context(), orderNumber, ctx.Param("filename"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ctx.Response().Header().Set(echo.HeaderContentType, "image/jpeg")
	return ctx.File(path)
}

func (c *AttachmentController) OpenImage(ctx echo.Context) error {
	orderNumber, err := orderNumberParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	path, err := c.attachmentService.OpenImage(ctx.Request().Context(), orderNumber, ctx.Param("filename"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, dto.OpenedDTO{Success: true, Path: path})
}

func (c *AttachmentController) OpenFolder(ctx echo.Context) error {
	orderNumber, err := orderNumberParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	path, err := c.attachmentService.OpenFolder(ctx.Request().Context(), orderNumber)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, dto.OpenedDTO{Success: true, Path: path})
}

func (c *AttachmentController) FolderPath(ctx echo.Context) error {
	orderNumber, err := orderNumberParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	path, err := c.attachmentService.FolderPath(ctx.Request().Context(), orderNumber)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, dto.FolderPathDTO{Path: path})
}
