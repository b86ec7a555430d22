package dto

import (
	"claim-system/internal/entities"
	"claim-system/pkg/utils"
)

// CreateOrderDTO - ручное создание заказа. Обязательные поля должны
// присутствовать в JSON, пустая строка допустима (как при импорте).
type CreateOrderDTO struct {
	Mall            *string `json:"mall" validate:"required"`
	GameName        *string `json:"gameName" validate:"required"`
	ProductName     *string `json:"productName" validate:"required"`
	GameCodeStatus  *string `json:"gameCodeStatus" validate:"required"`
	BuyerName       *string `json:"buyerName" validate:"required"`
	OrderNumber     string  `json:"orderNumber" validate:"required,order_number"`
	OrderNumberLink *string `json:"orderNumberLink,omitempty"`
	Status          *string `json:"status" validate:"required"`
	Progress        *string `json:"progress,omitempty"`
	Processing      *string `json:"processing,omitempty"`
	Memo            *string `json:"memo,omitempty"`
	Logs            *string `json:"logs,omitempty"`
	Column10        *string `json:"column10,omitempty"`
	Column12        *string `json:"column12,omitempty"`
	Column13        *string `json:"column13,omitempty"`
	Column14        *string `json:"column14,omitempty"`
	Column15        *string `json:"column15,omitempty"`
	Column16        *string `json:"column16,omitempty"`
	Column17        *string `json:"column17,omitempty"`
	Column18        *string `json:"column18,omitempty"`
	Column19        *string `json:"column19,omitempty"`
	Column20        *string `json:"column20,omitempty"`
}

func (d CreateOrderDTO) ToEntity() entities.Order {
	return entities.Order{
		Mall:            utils.SafeDeref(d.Mall),
		GameName:        utils.SafeDeref(d.GameName),
		ProductName:     utils.SafeDeref(d.ProductName),
		GameCodeStatus:  utils.SafeDeref(d.GameCodeStatus),
		BuyerName:       utils.SafeDeref(d.BuyerName),
		OrderNumber:     d.OrderNumber,
		OrderNumberLink: utils.NullStringFromPtr(d.OrderNumberLink),
		Status:          utils.SafeDeref(d.Status),
		Progress:        utils.NullStringFromPtr(d.Progress),
		Processing:      utils.NullStringFromPtr(d.Processing),
		Memo:            utils.NullStringFromPtr(d.Memo),
		Logs:            utils.NullStringFromPtr(d.Logs),
		Column10:        utils.NullStringFromPtr(d.Column10),
		Column12:        utils.NullStringFromPtr(d.Column12),
		Column13:        utils.NullStringFromPtr(d.Column13),
		Column14:        utils.NullStringFromPtr(d.Column14),
		Column15:        utils.NullStringFromPtr(d.Column15),
		Column16:        utils.NullStringFromPtr(d.Column16),
		Column17:        utils.NullStringFromPtr(d.Column17),
		Column18:        utils.NullStringFromPtr(d.Column18),
		Column19:        utils.NullStringFromPtr(d.Column19),
		Column20:        utils.NullStringFromPtr(d.Column20),
	}
}

// UpdateOrderDTO - частичное обновление. nil = поле не трогаем.
type UpdateOrderDTO struct {
	Mall            *string `json:"mall,omitempty"`
	GameName        *string `json:"gameName,omitempty"`
	ProductName     *string `json:"productName,omitempty"`
	GameCodeStatus  *string `json:"gameCodeStatus,omitempty"`
	BuyerName       *string `json:"buyerName,omitempty"`
	OrderNumber     *string `json:"orderNumber,omitempty" validate:"omitempty,order_number"`
	OrderNumberLink *string `json:"orderNumberLink,omitempty"`
	Status          *string `json:"status,omitempty"`
	Progress        *string `json:"progress,omitempty"`
	Processing      *string `json:"processing,omitempty"`
	Memo            *string `json:"memo,omitempty"`
	Logs            *string `json:"logs,omitempty"`
	Column10        *string `json:"column10,omitempty"`
	Column12        *string `json:"column12,omitempty"`
	Column13        *string `json:"column13,omitempty"`
	Column14        *string `json:"column14,omitempty"`
	Column15        *string `json:"column15,omitempty"`
	Column16        *string `json:"column16,omitempty"`
	Column17        *string `json:"column17,omitempty"`
	Column18        *string `json:"column18,omitempty"`
	Column19        *string `json:"column19,omitempty"`
	Column20        *string `json:"column20,omitempty"`
}

// ToColumns раскладывает присланные поля по колонкам таблицы orders.
func (d UpdateOrderDTO) ToColumns() map[string]interface{} {
	cols := make(map[string]interface{})
	set := func(column string, v *string) {
		if v != nil {
			cols[column] = *v
		}
	}
	set("mall", d.Mall)
	set("game_name", d.GameName)
	set("product_name", d.ProductName)
	set("game_code_status", d.GameCodeStatus)
	set("buyer_name", d.BuyerName)
	set("order_number", d.OrderNumber)
	set("order_number_link", d.OrderNumberLink)
	set("status", d.Status)
	set("progress", d.Progress)
	set("processing", d.Processing)
	set("memo", d.Memo)
	set("logs", d.Logs)
	set("column_10", d.Column10)
	set("column_12", d.Column12)
	set("column_13", d.Column13)
	set("column_14", d.Column14)
	set("column_15", d.Column15)
	set("column_16", d.Column16)
	set("column_17", d.Column17)
	set("column_18", d.Column18)
	set("column_19", d.Column19)
	set("column_20", d.Column20)
	return cols
}

type UpdateProgressDTO struct {
	Progress *string `json:"progress" validate:"required"`
}

type UpdateProcessingDTO struct {
	Processing *string `json:"processing" validate:"required"`
}

type UpdateGameCodeStatusDTO struct {
	GameCodeStatus *string `json:"gameCodeStatus" validate:"required"`
}

type UpdateMemoDTO struct {
	Memo *string `json:"memo" validate:"required"`
}

// ImportResultDTO - ответ на загрузку Excel.
type ImportResultDTO struct {
	Message      string           `json:"message"`
	BatchID      string           `json:"batchId"`
	CreatedCount int              `json:"createdCount"`
	SkippedCount int              `json:"skippedCount"`
	Orders       []entities.Order `json:"orders"`
	Skipped      []string         `json:"skipped"`
}
