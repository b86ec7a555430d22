package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"claim-system/internal/entities"
	db "claim-system/internal/infrastructure/bd"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/types"
)

const orderTable = "orders"

var orderFields = []string{
	"id", "mall", "game_name", "product_name", "game_code_status", "buyer_name",
	"order_number", "order_number_link", "status", "progress", "processing", "memo", "logs",
	"column_10", "column_12", "column_13", "column_14", "column_15", "column_16",
	"column_17", "column_18", "column_19", "column_20",
	"created_at", "updated_at",
}

// orderFilterColumns - разрешённые для filter[...] и sort[...] поля (JSON -> колонка)
var orderFilterColumns = map[string]string{
	"id":             "id",
	"mall":           "mall",
	"gameName":       "game_name",
	"productName":    "product_name",
	"gameCodeStatus": "game_code_status",
	"buyerName":      "buyer_name",
	"orderNumber":    "order_number",
	"status":         "status",
	"progress":       "progress",
	"processing":     "processing",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

var orderSearchColumns = []string{"order_number", "buyer_name", "product_name", "game_name"}

type OrderRepositoryInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error)
	FindOrder(ctx context.Context, id uint64) (*entities.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*entities.Order, error)
	CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error)
	// InsertIfAbsent вставляет заказ, если его номера ещё нет. created=false - дубликат.
	InsertIfAbsent(ctx context.Context, order entities.Order) (*entities.Order, bool, error)
	UpdateOrder(ctx context.Context, id uint64, columns map[string]interface{}) (*entities.Order, error)
	UpdateOrderInTx(ctx context.Context, tx pgx.Tx, id uint64, columns map[string]interface{}) (*entities.Order, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.Mall, &o.GameName, &o.ProductName, &o.GameCodeStatus, &o.BuyerName,
		&o.OrderNumber, &o.OrderNumberLink, &o.Status, &o.Progress, &o.Processing, &o.Memo, &o.Logs,
		&o.Column10, &o.Column12, &o.Column13, &o.Column14, &o.Column15, &o.Column16,
		&o.Column17, &o.Column18, &o.Column19, &o.Column20,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func orderInsertMap(o entities.Order) map[string]interface{} {
	return map[string]interface{}{
		"mall":              o.Mall,
		"game_name":         o.GameName,
		"product_name":      o.ProductName,
		"game_code_status":  o.GameCodeStatus,
		"buyer_name":        o.BuyerName,
		"order_number":      o.OrderNumber,
		"order_number_link": o.OrderNumberLink,
		"status":            o.Status,
		"progress":          o.Progress,
		"processing":        o.Processing,
		"memo":              o.Memo,
		"logs":              o.Logs,
		"column_10":         o.Column10,
		"column_12":         o.Column12,
		"column_13":         o.Column13,
		"column_14":         o.Column14,
		"column_15":         o.Column15,
		"column_16":         o.Column16,
		"column_17":         o.Column17,
		"column_18":         o.Column18,
		"column_19":         o.Column19,
		"column_20":         o.Column20,
	}
}

func returningOrder() string {
	return "RETURNING " + joinFields(orderFields)
}

func (r *OrderRepository) GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error) {
	builder := psql.Select(orderFields...).From(orderTable)
	builder = db.ApplySearch(builder, filter.Search, orderSearchColumns...)
	builder = db.ApplyListParams(builder, filter, orderFilterColumns)
	builder = builder.OrderBy("id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса списка заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа в списке: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// FindOrder находит один заказ по ID.
func (r *OrderRepository) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*entities.Order, error) {
	return r.findOne(ctx, sq.Eq{"order_number": orderNumber})
}

func (r *OrderRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Order, error) {
	query, args, err := psql.Select(orderFields...).From(orderTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заказа: %w", err)
	}

	order, err := scanOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error) {
	query, args, err := psql.Insert(orderTable).SetMap(orderInsertMap(order)).Suffix(returningOrder()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса создания заказа: %w", err)
	}

	created, err := scanOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("ошибка создания заказа: %w", err)
	}
	return created, nil
}

func (r *OrderRepository) InsertIfAbsent(ctx context.Context, order entities.Order) (*entities.Order, bool, error) {
	query, args, err := psql.Insert(orderTable).
		SetMap(orderInsertMap(order)).
		Suffix("ON CONFLICT (order_number) DO NOTHING " + returningOrder()).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("ошибка сборки запроса импорта заказа: %w", err)
	}

	created, err := scanOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		// DO NOTHING не возвращает строку - номер уже занят
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ошибка импорта заказа %q: %w", order.OrderNumber, err)
	}
	return created, true, nil
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, id uint64, columns map[string]interface{}) (*entities.Order, error) {
	return r.update(ctx, r.storage, id, columns)
}

func (r *OrderRepository) UpdateOrderInTx(ctx context.Context, tx pgx.Tx, id uint64, columns map[string]interface{}) (*entities.Order, error) {
	return r.update(ctx, tx, id, columns)
}

func (r *OrderRepository) update(ctx context.Context, q querier, id uint64, columns map[string]interface{}) (*entities.Order, error) {
	query, args, err := psql.Update(orderTable).
		SetMap(columns).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix(returningOrder()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса обновления заказа: %w", err)
	}

	updated, err := scanOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("ошибка обновления заказа %d: %w", id, err)
	}
	return updated, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
