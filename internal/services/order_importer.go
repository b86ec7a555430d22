package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"claim-system/internal/entities"
	"claim-system/internal/events"
	"claim-system/internal/repositories"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/eventbus"
	"claim-system/pkg/filestorage"
)

// headerRows - первые две строки листа занимает шапка.
const headerRows = 2

// importColumn - одна колонка таблицы: индекс (с нуля) и поле заказа.
type importColumn struct {
	Index int
	Field string
	// Link - из этой же ячейки берётся ссылка на заказ
	Link bool
	set  func(o *entities.Order, v string)
}

func setNull(field func(o *entities.Order) *null.String) func(o *entities.Order, v string) {
	return func(o *entities.Order, v string) { *field(o) = null.StringFrom(v) }
}

// importColumns - раскладка колонок загружаемой таблицы.
var importColumns = []importColumn{
	{Index: 0, Field: "mall", set: func(o *entities.Order, v string) { o.Mall = v }},
	{Index: 1, Field: "gameName", set: func(o *entities.Order, v string) { o.GameName = v }},
	{Index: 2, Field: "productName", set: func(o *entities.Order, v string) { o.ProductName = v }},
	{Index: 3, Field: "gameCodeStatus", set: func(o *entities.Order, v string) { o.GameCodeStatus = v }},
	{Index: 4, Field: "buyerName", set: func(o *entities.Order, v string) { o.BuyerName = v }},
	{Index: 5, Field: "orderNumber", Link: true, set: func(o *entities.Order, v string) { o.OrderNumber = cleanOrderNumber(v) }},
	{Index: 6, Field: "status", set: func(o *entities.Order, v string) { o.Status = v }},
	{Index: 7, Field: "progress", set: setNull(func(o *entities.Order) *null.String { return &o.Progress })},
	{Index: 8, Field: "processing", set: setNull(func(o *entities.Order) *null.String { return &o.Processing })},
	{Index: 9, Field: "column10", set: setNull(func(o *entities.Order) *null.String { return &o.Column10 })},
	{Index: 10, Field: "memo", set: setNull(func(o *entities.Order) *null.String { return &o.Memo })},
	{Index: 11, Field: "column12", set: setNull(func(o *entities.Order) *null.String { return &o.Column12 })},
	{Index: 12, Field: "column13", set: setNull(func(o *entities.Order) *null.String { return &o.Column13 })},
	{Index: 13, Field: "column14", set: setNull(func(o *entities.Order) *null.String { return &o.Column14 })},
	{Index: 14, Field: "column15", set: setNull(func(o *entities.Order) *null.String { return &o.Column15 })},
	{Index: 15, Field: "column16", set: setNull(func(o *entities.Order) *null.String { return &o.Column16 })},
	{Index: 16, Field: "column17", set: setNull(func(o *entities.Order) *null.String { return &o.Column17 })},
	{Index: 17, Field: "column18", set: setNull(func(o *entities.Order) *null.String { return &o.Column18 })},
	{Index: 18, Field: "column19", set: setNull(func(o *entities.Order) *null.String { return &o.Column19 })},
	{Index: 19, Field: "column20", set: setNull(func(o *entities.Order) *null.String { return &o.Column20 })},
	{Index: 20, Field: "logs", set: setNull(func(o *entities.Order) *null.String { return &o.Logs })},
}

// rawCell - ячейка как она лежит в файле.
type rawCell struct {
	Value           string
	Formula         string
	HyperlinkTarget string
}

var hyperlinkFormula = regexp.MustCompile(`(?i)HYPERLINK\(\s*"([^"]+)"`)

// extractLink: аннотация-гиперссылка, затем первый аргумент формулы HYPERLINK,
// затем само значение, если это URL.
func extractLink(cell rawCell) string {
	if cell.HyperlinkTarget != "" {
		return cell.HyperlinkTarget
	}
	if m := hyperlinkFormula.FindStringSubmatch(cell.Formula); m != nil {
		return m[1]
	}
	v := strings.TrimSpace(cell.Value)
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	return ""
}

// cleanOrderNumber убирает пробелы по краям и один ведущий '@'.
func cleanOrderNumber(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "@")
}

// locationLink: ссылка внутрь книги ("Sheet1!A1" или "A1") отдаётся с ведущим '#',
// внешние адреса остаются как есть.
func locationLink(sheets []string, target string) string {
	if target == "" || strings.HasPrefix(target, "#") || strings.Contains(target, "://") {
		return target
	}
	ref := target
	if i := strings.LastIndex(target, "!"); i >= 0 {
		name := strings.Trim(target[:i], "'")
		known := false
		for _, s := range sheets {
			if s == name {
				known = true
				break
			}
		}
		if !known {
			return target
		}
		ref = target[i+1:]
	}
	ref = strings.SplitN(strings.ReplaceAll(ref, "$", ""), ":", 2)[0]
	if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
		return target
	}
	return "#" + target
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// buildOrder собирает заказ из ячеек одной строки.
func buildOrder(cells map[int]rawCell) entities.Order {
	var order entities.Order
	for _, col := range importColumns {
		cell := cells[col.Index]
		col.set(&order, strings.TrimSpace(cell.Value))
		if col.Link {
			order.OrderNumberLink = null.StringFrom(extractLink(cell))
		}
	}
	return order
}

// ParseWorkbook читает первый лист и возвращает заказы-кандидаты со строк данных.
// Строки с пустым номером тоже возвращаются, отбрасывает их импорт.
func ParseWorkbook(data []byte) ([]entities.Order, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrEmptyWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %q: %w", sheet, err)
	}

	candidates := make([]entities.Order, 0, len(rows))
	for i := headerRows; i < len(rows); i++ {
		row := rows[i]
		cells := make(map[int]rawCell, len(importColumns))
		for _, col := range importColumns {
			cell := rawCell{Value: safeGet(row, col.Index)}
			if col.Link {
				axis, err := excelize.CoordinatesToCellName(col.Index+1, i+1)
				if err != nil {
					return nil, err
				}
				if ok, target, err := f.GetCellHyperLink(sheet, axis); err == nil && ok {
					cell.HyperlinkTarget = locationLink(sheets, target)
				}
				if formula, err := f.GetCellFormula(sheet, axis); err == nil {
					cell.Formula = formula
				}
			}
			cells[col.Index] = cell
		}
		candidates = append(candidates, buildOrder(cells))
	}
	return candidates, nil
}

// ImportResult - итог одной загрузки.
type ImportResult struct {
	BatchID string
	Created []entities.Order
	Skipped []string
}

type OrderImportServiceInterface interface {
	Import(ctx context.Context, fileName string, data []byte) (*ImportResult, error)
}

type OrderImportService struct {
	orderRepo repositories.OrderRepositoryInterface
	locker    ImportLocker
	archive   filestorage.FileStorageInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

// NewOrderImportService: archive и bus могут быть nil.
func NewOrderImportService(
	orderRepo repositories.OrderRepositoryInterface,
	locker ImportLocker,
	archive filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderImportServiceInterface {
	return &OrderImportService{
		orderRepo: orderRepo,
		locker:    locker,
		archive:   archive,
		bus:       bus,
		logger:    logger,
	}
}

// Import разбирает таблицу и вставляет новые заказы. Существующие номера
// попадают в Skipped и не перезаписываются. Уже вставленные строки при
// ошибке в середине не откатываются.
func (s *OrderImportService) Import(ctx context.Context, fileName string, data []byte) (*ImportResult, error) {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	batchID := uuid.NewString()
	logger := s.logger.With(zap.String("batchId", batchID), zap.String("file", fileName))

	if s.archive != nil {
		if path, err := s.archive.Save(bytes.NewReader(data), fileName, "imports"); err != nil {
			logger.Warn("Не удалось сохранить копию файла", zap.Error(err))
		} else {
			logger.Info("Копия файла сохранена", zap.String("path", path))
		}
	}

	candidates, err := ParseWorkbook(data)
	if err != nil {
		logger.Error("Не удалось разобрать файл", zap.Error(err))
		return nil, err
	}

	result := &ImportResult{
		BatchID: batchID,
		Created: make([]entities.Order, 0),
		Skipped: make([]string, 0),
	}
	for _, candidate := range candidates {
		if candidate.OrderNumber == "" {
			continue
		}
		order, created, err := s.orderRepo.InsertIfAbsent(ctx, candidate)
		if err != nil {
			logger.Error("Импорт прерван",
				zap.String("orderNumber", candidate.OrderNumber),
				zap.Int("created", len(result.Created)),
				zap.Error(err),
			)
			return nil, err
		}
		if !created {
			result.Skipped = append(result.Skipped, candidate.OrderNumber)
			continue
		}
		result.Created = append(result.Created, *order)
	}

	logger.Info("Импорт завершён",
		zap.Int("rows", len(candidates)),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	if s.bus != nil {
		s.bus.Publish(ctx, events.OrdersImportedEvent{
			BatchID:      batchID,
			FileName:     fileName,
			CreatedCount: len(result.Created),
			SkippedCount: len(result.Skipped),
			Skipped:      result.Skipped,
		})
	}
	return result, nil
}
