package websocket

import "time"

// Типы сообщений для UI
const (
	MessageOrdersImported = "orders.imported"
	MessageOrderUpdated   = "order.updated"
)

// Envelope - конверт сообщения: по Type фронтенд решает, что перезагрузить.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type OrdersImportedPayload struct {
	BatchID      string `json:"batchId"`
	CreatedCount int    `json:"createdCount"`
	SkippedCount int    `json:"skippedCount"`
}

type OrderUpdatedPayload struct {
	OrderID     uint64 `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Action      string `json:"action"`
	Value       string `json:"value"`
}
