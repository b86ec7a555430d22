package listeners

import (
	"context"

	"go.uber.org/zap"

	"claim-system/internal/events"
	"claim-system/pkg/eventbus"
	"claim-system/pkg/websocket"
)

// LiveListener пересылает события заказов в WebSocket, чтобы открытые
// вкладки обновили таблицу без перезагрузки.
type LiveListener struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewLiveListener(hub *websocket.Hub, logger *zap.Logger) *LiveListener {
	return &LiveListener{hub: hub, logger: logger}
}

func (l *LiveListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrdersImportedEvent{}.Name(), l.handleOrdersImported)
	bus.Subscribe(events.OrderFieldChangedEvent{}.Name(), l.handleFieldChanged)
	l.logger.Info("LiveListener подписан на события заказов")
}

func (l *LiveListener) handleOrdersImported(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrdersImportedEvent)
	if !ok {
		return nil
	}
	// пустая загрузка таблицу не меняет
	if e.CreatedCount == 0 {
		return nil
	}
	return l.hub.Broadcast(websocket.MessageOrdersImported, websocket.OrdersImportedPayload{
		BatchID:      e.BatchID,
		CreatedCount: e.CreatedCount,
		SkippedCount: e.SkippedCount,
	})
}

func (l *LiveListener) handleFieldChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderFieldChangedEvent)
	if !ok {
		return nil
	}
	return l.hub.Broadcast(websocket.MessageOrderUpdated, websocket.OrderUpdatedPayload{
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		Action:      e.Action,
		Value:       e.Value,
	})
}
