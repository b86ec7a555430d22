package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/dto"
	"claim-system/internal/services"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/utils"
	"claim-system/pkg/validation"
)

const workbookUploadContext = "order_workbook"

// UploadController - загрузка таблицы заказов.
type UploadController struct {
	importService services.OrderImportServiceInterface
	logger        *zap.Logger
}

func NewUploadController(importService services.OrderImportServiceInterface, logger *zap.Logger) *UploadController {
	return &UploadController{importService: importService, logger: logger}
}

func (ctrl *UploadController) UploadExcel(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, "Файл не был передан", nil, nil),
			ctrl.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil),
			ctrl.logger,
		)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, workbookUploadContext); err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), nil, nil),
			ctrl.logger,
		)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка чтения файла", err, nil),
			ctrl.logger,
		)
	}

	result, err := ctrl.importService.Import(c.Request().Context(), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, apperrors.ErrImportInProgress) {
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(
				http.StatusInternalServerError,
				"Не удалось обработать файл Excel",
				err,
				map[string]interface{}{"file": fileHeader.Filename},
			),
			ctrl.logger,
		)
	}

	return c.JSON(http.StatusOK, dto.ImportResultDTO{
		Message:      fmt.Sprintf("Импорт завершён: добавлено %d, пропущено %d", len(result.Created), len(result.Skipped)),
		BatchID:      result.BatchID,
		CreatedCount: len(result.Created),
		SkippedCount: len(result.Skipped),
		Orders:       result.Created,
		Skipped:      result.Skipped,
	})
}
