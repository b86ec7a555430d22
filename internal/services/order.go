package services

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claim-system/internal/dto"
	"claim-system/internal/entities"
	"claim-system/internal/events"
	"claim-system/internal/repositories"
	"claim-system/pkg/eventbus"
	"claim-system/pkg/types"
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error)
	FindOrder(ctx context.Context, id uint64) (*entities.Order, error)
	CreateOrder(ctx context.Context, data dto.CreateOrderDTO) (*entities.Order, error)
	UpdateOrder(ctx context.Context, id uint64, data dto.UpdateOrderDTO) (*entities.Order, error)
	UpdateProgress(ctx context.Context, id uint64, progress string) (*entities.Order, error)
	UpdateProcessing(ctx context.Context, id uint64, processing string) (*entities.Order, error)
	UpdateGameCodeStatus(ctx context.Context, id uint64, status string) (*entities.Order, error)
	UpdateMemo(ctx context.Context, id uint64, memo string) (*entities.Order, error)
	GetLogs(ctx context.Context) ([]entities.Log, error)
	GetOrderLogs(ctx context.Context, id uint64) ([]entities.Log, error)
}

type OrderService struct {
	txManager repositories.TxManagerInterface
	orderRepo repositories.OrderRepositoryInterface
	logRepo   repositories.LogRepositoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logRepo repositories.LogRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		txManager: txManager,
		orderRepo: orderRepo,
		logRepo:   logRepo,
		bus:       bus,
		logger:    logger,
	}
}

func (s *OrderService) GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error) {
	return s.orderRepo.GetOrders(ctx, filter)
}

func (s *OrderService) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	return s.orderRepo.FindOrder(ctx, id)
}

func (s *OrderService) CreateOrder(ctx context.Context, data dto.CreateOrderDTO) (*entities.Order, error) {
	order, err := s.orderRepo.CreateOrder(ctx, data.ToEntity())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Заказ создан вручную", zap.Uint64("id", order.ID), zap.String("orderNumber", order.OrderNumber))
	return order, nil
}

// UpdateOrder применяет произвольный набор полей. Пустой патч возвращает заказ как есть.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint64, data dto.UpdateOrderDTO) (*entities.Order, error) {
	columns := data.ToColumns()
	if len(columns) == 0 {
		return s.orderRepo.FindOrder(ctx, id)
	}
	return s.orderRepo.UpdateOrder(ctx, id, columns)
}

func (s *OrderService) UpdateProgress(ctx context.Context, id uint64, progress string) (*entities.Order, error) {
	return s.updateLogged(ctx, id, "progress", progress, entities.LogActionProgressUpdated)
}

func (s *OrderService) UpdateProcessing(ctx context.Context, id uint64, processing string) (*entities.Order, error) {
	return s.updateLogged(ctx, id, "processing", processing, entities.LogActionProcessingUpdated)
}

func (s *OrderService) UpdateGameCodeStatus(ctx context.Context, id uint64, status string) (*entities.Order, error) {
	return s.orderRepo.UpdateOrder(ctx, id, map[string]interface{}{"game_code_status": status})
}

func (s *OrderService) UpdateMemo(ctx context.Context, id uint64, memo string) (*entities.Order, error) {
	return s.orderRepo.UpdateOrder(ctx, id, map[string]interface{}{"memo": memo})
}

// updateLogged обновляет поле и пишет запись журнала в одной транзакции:
// если заказа нет, журнал не трогается.
func (s *OrderService) updateLogged(ctx context.Context, id uint64, column, value, action string) (*entities.Order, error) {
	var updated *entities.Order
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		updated, err = s.orderRepo.UpdateOrderInTx(ctx, tx, id, map[string]interface{}{column: value})
		if err != nil {
			return err
		}
		_, err = s.logRepo.CreateInTx(ctx, tx, entities.Log{
			OrderID: null.Uint64From(id),
			Action:  action,
			Value:   value,
		})
		if err != nil {
			return fmt.Errorf("не удалось записать журнал для заказа %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Поле заказа изменено",
		zap.Uint64("id", id),
		zap.String("action", action),
		zap.String("value", value),
	)
	if s.bus != nil {
		s.bus.Publish(ctx, events.OrderFieldChangedEvent{
			OrderID:     id,
			OrderNumber: updated.OrderNumber,
			Action:      action,
			Value:       value,
		})
	}
	return updated, nil
}

func (s *OrderService) GetLogs(ctx context.Context) ([]entities.Log, error) {
	return s.logRepo.GetAll(ctx)
}

// GetOrderLogs - журнал одного заказа; для несуществующего заказа ErrNotFound.
func (s *OrderService) GetOrderLogs(ctx context.Context, id uint64) ([]entities.Log, error) {
	if _, err := s.orderRepo.FindOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.logRepo.GetByOrderID(ctx, id)
}
