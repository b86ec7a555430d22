package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Order - одна строка заказа/претензии. Поля ColumnNN хранят колонки
// исходной таблицы без известного смысла, как есть.
type Order struct {
	ID              uint64      `json:"id" db:"id"`
	Mall            string      `json:"mall" db:"mall"`
	GameName        string      `json:"gameName" db:"game_name"`
	ProductName     string      `json:"productName" db:"product_name"`
	GameCodeStatus  string      `json:"gameCodeStatus" db:"game_code_status"`
	BuyerName       string      `json:"buyerName" db:"buyer_name"`
	OrderNumber     string      `json:"orderNumber" db:"order_number"`
	OrderNumberLink null.String `json:"orderNumberLink" db:"order_number_link"`
	Status          string      `json:"status" db:"status"`
	Progress        null.String `json:"progress" db:"progress"`
	Processing      null.String `json:"processing" db:"processing"`
	Memo            null.String `json:"memo" db:"memo"`
	Logs            null.String `json:"logs" db:"logs"`
	Column10        null.String `json:"column10" db:"column_10"`
	Column12        null.String `json:"column12" db:"column_12"`
	Column13        null.String `json:"column13" db:"column_13"`
	Column14        null.String `json:"column14" db:"column_14"`
	Column15        null.String `json:"column15" db:"column_15"`
	Column16        null.String `json:"column16" db:"column_16"`
	Column17        null.String `json:"column17" db:"column_17"`
	Column18        null.String `json:"column18" db:"column_18"`
	Column19        null.String `json:"column19" db:"column_19"`
	Column20        null.String `json:"column20" db:"column_20"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}
