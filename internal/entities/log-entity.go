package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Действия журнала
const (
	LogActionProgressUpdated   = "progress updated"
	LogActionProcessingUpdated = "processing updated"
)

// Log - запись журнала изменений заказа. Только добавляется.
type Log struct {
	ID        uint64      `json:"id" db:"id"`
	OrderID   null.Uint64 `json:"orderId" db:"order_id"`
	Action    string      `json:"action" db:"action"`
	Value     string      `json:"value" db:"value"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
}
