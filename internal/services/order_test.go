package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claim-system/internal/dto"
	"claim-system/internal/entities"
	"claim-system/internal/repositories/repotest"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/utils"
)

func newTestOrderService(t *testing.T) (OrderServiceInterface, *repotest.OrderRepo, *repotest.LogRepo) {
	t.Helper()
	orders := repotest.NewOrderRepo()
	logs := &repotest.LogRepo{}
	return NewOrderService(repotest.TxManager{}, orders, logs, nil, zap.NewNop()), orders, logs
}

func seedOrder(repo *repotest.OrderRepo, id uint64, number string) {
	repo.Seed(entities.Order{ID: id, OrderNumber: number, Mall: "ShopA", Status: "Open"})
}

func TestOrderService_UpdateProgressWritesLog(t *testing.T) {
	svc, orders, logs := newTestOrderService(t)
	seedOrder(orders, 5, "ORD5")

	updated, err := svc.UpdateProgress(context.Background(), 5, "80%")
	require.NoError(t, err)
	assert.Equal(t, "80%", updated.Progress.String)

	require.Len(t, logs.Entries(), 1)
	entry := logs.Entries()[0]
	assert.Equal(t, uint64(5), entry.OrderID.Uint64)
	assert.Equal(t, entities.LogActionProgressUpdated, entry.Action)
	assert.Equal(t, "80%", entry.Value)
}

func TestOrderService_UpdateProcessingWritesLog(t *testing.T) {
	svc, orders, logs := newTestOrderService(t)
	seedOrder(orders, 2, "ORD2")

	updated, err := svc.UpdateProcessing(context.Background(), 2, "refunded")
	require.NoError(t, err)
	assert.Equal(t, "refunded", updated.Processing.String)

	orderLogs, err := svc.GetOrderLogs(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, orderLogs, 1)
	assert.Equal(t, entities.LogActionProcessingUpdated, orderLogs[0].Action)

	require.Len(t, logs.Entries(), 1)
	assert.Equal(t, "refunded", logs.Entries()[0].Value)
}

func TestOrderService_MemoAndGameCodeStatusDoNotLog(t *testing.T) {
	svc, orders, logs := newTestOrderService(t)
	seedOrder(orders, 1, "ORD1")

	updated, err := svc.UpdateMemo(context.Background(), 1, "позвонить")
	require.NoError(t, err)
	assert.Equal(t, "позвонить", updated.Memo.String)

	updated, err = svc.UpdateGameCodeStatus(context.Background(), 1, "sent")
	require.NoError(t, err)
	assert.Equal(t, "sent", updated.GameCodeStatus)

	assert.Empty(t, logs.Entries())
}

func TestOrderService_MissingOrderNoLog(t *testing.T) {
	svc, _, logs := newTestOrderService(t)

	_, err := svc.UpdateMemo(context.Background(), 999, "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.UpdateProgress(context.Background(), 999, "10%")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.GetOrderLogs(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Empty(t, logs.Entries())
}

func TestOrderService_CreateAndPatch(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	ctx := context.Background()

	create := dto.CreateOrderDTO{
		Mall:           utils.ToPtr("ShopA"),
		GameName:       utils.ToPtr("GameX"),
		ProductName:    utils.ToPtr("ProdY"),
		GameCodeStatus: utils.ToPtr(""),
		BuyerName:      utils.ToPtr("Buyer1"),
		OrderNumber:    "ORD1",
		Status:         utils.ToPtr("Open"),
	}
	created, err := svc.CreateOrder(ctx, create)
	require.NoError(t, err)
	assert.False(t, created.Memo.Valid)

	_, err = svc.CreateOrder(ctx, create)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	patched, err := svc.UpdateOrder(ctx, created.ID, dto.UpdateOrderDTO{Status: utils.ToPtr("Closed")})
	require.NoError(t, err)
	assert.Equal(t, "Closed", patched.Status)
	assert.Equal(t, "ShopA", patched.Mall)

	same, err := svc.UpdateOrder(ctx, created.ID, dto.UpdateOrderDTO{})
	require.NoError(t, err)
	assert.Equal(t, "Closed", same.Status)

	_, err = svc.UpdateOrder(ctx, 999, dto.UpdateOrderDTO{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderService_GetLogsNewestFirst(t *testing.T) {
	svc, orders, _ := newTestOrderService(t)
	seedOrder(orders, 1, "ORD1")

	_, err := svc.UpdateProgress(context.Background(), 1, "10%")
	require.NoError(t, err)
	_, err = svc.UpdateProgress(context.Background(), 1, "20%")
	require.NoError(t, err)

	all, err := svc.GetLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "20%", all[0].Value)
	assert.Equal(t, "10%", all[1].Value)
}
