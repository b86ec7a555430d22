package events

// OrdersImportedEvent публикуется после каждой загрузки таблицы.
type OrdersImportedEvent struct {
	BatchID      string
	FileName     string
	CreatedCount int
	SkippedCount int
	Skipped      []string
}

func (e OrdersImportedEvent) Name() string {
	return "orders.imported"
}

// OrderFieldChangedEvent - изменение поля, попавшее в журнал.
type OrderFieldChangedEvent struct {
	OrderID     uint64
	OrderNumber string
	Action      string
	Value       string
}

func (e OrderFieldChangedEvent) Name() string {
	return "order.field.changed"
}
