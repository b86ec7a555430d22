// Package repotest - реализации интерфейсов репозиториев в памяти для тестов.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"

	"claim-system/internal/entities"
	"claim-system/internal/repositories"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/types"
)

var (
	_ repositories.OrderRepositoryInterface = (*OrderRepo)(nil)
	_ repositories.LogRepositoryInterface   = (*LogRepo)(nil)
	_ repositories.TxManagerInterface       = TxManager{}
	_ repositories.CacheRepositoryInterface = (*Cache)(nil)
)

// OrderRepo - хранилище заказов в памяти с тем же контрактом, что у Postgres.
type OrderRepo struct {
	mu       sync.Mutex
	nextID   uint64
	orders   map[uint64]*entities.Order
	byNumber map[string]uint64
	FailOn   string
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: map[uint64]*entities.Order{}, byNumber: map[string]uint64{}}
}

func (r *OrderRepo) put(o entities.Order) *entities.Order {
	if o.ID == 0 {
		r.nextID++
		o.ID = r.nextID
	} else if o.ID > r.nextID {
		r.nextID = o.ID
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.orders[o.ID] = &o
	r.byNumber[o.OrderNumber] = o.ID
	copied := o
	return &copied
}

func (r *OrderRepo) GetOrders(_ context.Context, _ types.Filter) ([]entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Order, 0, len(r.orders))
	for id := uint64(1); id <= r.nextID; id++ {
		if o, ok := r.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *OrderRepo) FindOrder(_ context.Context, id uint64) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *OrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*entities.Order, error) {
	r.mu.Lock()
	id, ok := r.byNumber[orderNumber]
	r.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.FindOrder(ctx, id)
}

func (r *OrderRepo) CreateOrder(_ context.Context, order entities.Order) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNumber[order.OrderNumber]; exists {
		return nil, apperrors.ErrConflict
	}
	return r.put(order), nil
}

func (r *OrderRepo) InsertIfAbsent(_ context.Context, order entities.Order) (*entities.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn != "" && order.OrderNumber == r.FailOn {
		return nil, false, context.DeadlineExceeded
	}
	if _, exists := r.byNumber[order.OrderNumber]; exists {
		return nil, false, nil
	}
	return r.put(order), true, nil
}

func (r *OrderRepo) UpdateOrder(_ context.Context, id uint64, columns map[string]interface{}) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if n, ok := columns["order_number"].(string); ok && n != o.OrderNumber {
		if _, taken := r.byNumber[n]; taken {
			return nil, apperrors.ErrConflict
		}
		delete(r.byNumber, o.OrderNumber)
		r.byNumber[n] = id
	}
	for col, v := range columns {
		s, _ := v.(string)
		switch col {
		case "mall":
			o.Mall = s
		case "buyer_name":
			o.BuyerName = s
		case "order_number":
			o.OrderNumber = s
		case "status":
			o.Status = s
		case "game_code_status":
			o.GameCodeStatus = s
		case "progress":
			o.Progress = null.StringFrom(s)
		case "processing":
			o.Processing = null.StringFrom(s)
		case "memo":
			o.Memo = null.StringFrom(s)
		}
	}
	o.UpdatedAt = time.Now()
	copied := *o
	return &copied, nil
}

func (r *OrderRepo) UpdateOrderInTx(ctx context.Context, _ pgx.Tx, id uint64, columns map[string]interface{}) (*entities.Order, error) {
	return r.UpdateOrder(ctx, id, columns)
}

type LogRepo struct {
	mu      sync.Mutex
	entries []entities.Log
}

func (r *LogRepo) Create(_ context.Context, entry entities.Log) (*entities.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uint64(len(r.entries) + 1)
	entry.Timestamp = time.Now()
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *LogRepo) CreateInTx(ctx context.Context, _ pgx.Tx, entry entities.Log) (*entities.Log, error) {
	return r.Create(ctx, entry)
}

func (r *LogRepo) GetAll(_ context.Context) ([]entities.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Log, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *LogRepo) GetByOrderID(ctx context.Context, orderID uint64) ([]entities.Log, error) {
	all, _ := r.GetAll(ctx)
	out := make([]entities.Log, 0)
	for _, l := range all {
		if l.OrderID.Valid && l.OrderID.Uint64 == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

// TxManager выполняет fn без транзакции.
type TxManager struct{}

func (TxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// Cache - SETNX/GET/DEL в памяти.
type Cache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func NewCache() *Cache {
	return &Cache{data: map[string]interface{}{}}
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *Cache) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; exists {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

// Seed кладёт заказ как есть (с заданным ID, если он не нулевой).
func (r *OrderRepo) Seed(o entities.Order) *entities.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.put(o)
}

// Entries - все записи журнала в порядке добавления.
func (r *LogRepo) Entries() []entities.Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Log(nil), r.entries...)
}
