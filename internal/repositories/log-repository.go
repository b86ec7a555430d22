package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"claim-system/internal/entities"
)

const logTable = "logs"

var logFields = []string{"id", "order_id", "action", "value", "timestamp"}

type LogRepositoryInterface interface {
	Create(ctx context.Context, entry entities.Log) (*entities.Log, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, entry entities.Log) (*entities.Log, error)
	// GetAll - весь журнал, новые записи первыми.
	GetAll(ctx context.Context) ([]entities.Log, error)
	GetByOrderID(ctx context.Context, orderID uint64) ([]entities.Log, error)
}

type LogRepository struct {
	storage *pgxpool.Pool
}

func NewLogRepository(storage *pgxpool.Pool) LogRepositoryInterface {
	return &LogRepository{storage: storage}
}

func scanLog(row pgx.Row) (*entities.Log, error) {
	var l entities.Log
	if err := row.Scan(&l.ID, &l.OrderID, &l.Action, &l.Value, &l.Timestamp); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LogRepository) Create(ctx context.Context, entry entities.Log) (*entities.Log, error) {
	return r.create(ctx, r.storage, entry)
}

func (r *LogRepository) CreateInTx(ctx context.Context, tx pgx.Tx, entry entities.Log) (*entities.Log, error) {
	return r.create(ctx, tx, entry)
}

func (r *LogRepository) create(ctx context.Context, q querier, entry entities.Log) (*entities.Log, error) {
	query, args, err := psql.Insert(logTable).
		Columns("order_id", "action", "value").
		Values(entry.OrderID, entry.Action, entry.Value).
		Suffix("RETURNING " + joinFields(logFields)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса записи в журнал: %w", err)
	}

	created, err := scanLog(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("ошибка записи в журнал (%s): %w", entry.Action, err)
	}
	return created, nil
}

func (r *LogRepository) GetAll(ctx context.Context) ([]entities.Log, error) {
	return r.list(ctx, psql.Select(logFields...).From(logTable))
}

func (r *LogRepository) GetByOrderID(ctx context.Context, orderID uint64) ([]entities.Log, error) {
	return r.list(ctx, psql.Select(logFields...).From(logTable).Where(sq.Eq{"order_id": orderID}))
}

func (r *LogRepository) list(ctx context.Context, builder sq.SelectBuilder) ([]entities.Log, error) {
	query, args, err := builder.OrderBy("timestamp DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса журнала: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	logs := make([]entities.Log, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}
