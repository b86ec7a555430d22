package listeners

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"claim-system/internal/events"
	"claim-system/pkg/eventbus"
)

const defaultGroupWindow = 2 * time.Second

type changeGroup struct {
	orderNumber string
	changes     []string
	timer       *time.Timer
}

// AuditListener пишет в лог итоги импорта и сводку изменений по заказу.
// Изменения одного заказа за короткое окно склеиваются в одну запись.
type AuditListener struct {
	logger   *zap.Logger
	window   time.Duration
	groups   map[uint64]*changeGroup
	groupsMu sync.Mutex
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{
		logger: logger,
		window: defaultGroupWindow,
		groups: make(map[uint64]*changeGroup),
	}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrdersImportedEvent{}.Name(), l.handleOrdersImported)
	bus.Subscribe(events.OrderFieldChangedEvent{}.Name(), l.handleFieldChanged)
	l.logger.Info("AuditListener подписан на события импорта и изменения заказов")
}

func (l *AuditListener) handleOrdersImported(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrdersImportedEvent)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("batchId", e.BatchID),
		zap.String("file", e.FileName),
		zap.Int("created", e.CreatedCount),
		zap.Int("skipped", e.SkippedCount),
	}
	if e.SkippedCount > 0 {
		fields = append(fields, zap.Strings("skippedOrders", e.Skipped))
	}
	l.logger.Info("Загрузка таблицы", fields...)
	return nil
}

func (l *AuditListener) handleFieldChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderFieldChangedEvent)
	if !ok {
		return nil
	}

	l.groupsMu.Lock()
	defer l.groupsMu.Unlock()

	group, exists := l.groups[e.OrderID]
	if !exists {
		group = &changeGroup{orderNumber: e.OrderNumber}
		l.groups[e.OrderID] = group
		orderID := e.OrderID
		group.timer = time.AfterFunc(l.window, func() { l.flush(orderID) })
	}
	group.changes = append(group.changes, e.Action+": "+e.Value)
	return nil
}

func (l *AuditListener) flush(orderID uint64) {
	l.groupsMu.Lock()
	group, exists := l.groups[orderID]
	delete(l.groups, orderID)
	l.groupsMu.Unlock()

	if !exists || len(group.changes) == 0 {
		return
	}
	l.logger.Info("Изменения заказа",
		zap.Uint64("orderId", orderID),
		zap.String("orderNumber", group.orderNumber),
		zap.String("changes", strings.Join(group.changes, "; ")),
	)
}

// Close сбрасывает накопленные группы, не дожидаясь таймеров.
func (l *AuditListener) Close() {
	l.groupsMu.Lock()
	ids := make([]uint64, 0, len(l.groups))
	for id, g := range l.groups {
		g.timer.Stop()
		ids = append(ids, id)
	}
	l.groupsMu.Unlock()

	for _, id := range ids {
		l.flush(id)
	}
}
