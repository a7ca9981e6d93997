package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/service"
	mocks "github.com/SergeyBogomolovv/order-delivery-service/internal/service/mocks"
	txMocks "github.com/SergeyBogomolovv/order-delivery-service/pkg/trm/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type deps struct {
	repo     *mocks.MockOrderRepo
	delivery *mocks.MockDeliveryClient
	cache    *mocks.MockCache
	tx       *txMocks.MockManager
}

func newDeps(t *testing.T) deps {
	d := deps{
		repo:     mocks.NewMockOrderRepo(t),
		delivery: mocks.NewMockDeliveryClient(t),
		cache:    mocks.NewMockCache(t),
		tx:       txMocks.NewMockManager(t),
	}
	d.tx.EXPECT().
		Do(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, cb func(ctx context.Context) error) error {
			return cb(ctx)
		}).Maybe()
	return d
}

func (d deps) service(policy service.DeletionPolicy) interface {
	CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error
	WarmUpCache(ctx context.Context, count int) error
} {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewOrderService(logger, d.tx, d.repo, d.delivery, d.cache, policy)
}

func testOrder() entities.Order {
	return entities.Order{
		CustomerID:      10,
		DeliveryAddress: "Lenina 1",
		DeliveryType:    entities.DeliveryStandard,
		Items: []entities.OrderItem{
			{Product: "A", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{Product: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
		},
	}
}

func TestOrderService_GetOrderByID(t *testing.T) {
	type MockBehavior func(d deps)

	validOrder := entities.Order{ID: 1, Status: entities.StatusInTransit}
	validData, err := validOrder.Marshal()
	require.NoError(t, err)

	testCases := []struct {
		name         string
		mockBehavior MockBehavior
		wantOrder    entities.Order
		wantErr      error
	}{
		{
			name: "cache hit",
			mockBehavior: func(d deps) {
				d.cache.EXPECT().Get("1").Return(validData, true).Once()
			},
			wantOrder: validOrder,
		},
		{
			name: "cache miss, loaded from repo",
			mockBehavior: func(d deps) {
				d.cache.EXPECT().Get("1").Return(nil, false).Once()
				d.repo.EXPECT().GetOrderByID(mock.Anything, int64(1)).Return(validOrder, nil).Once()
				d.cache.EXPECT().Set("1", validData).Once()
			},
			wantOrder: validOrder,
		},
		{
			name: "broken cache entry is dropped",
			mockBehavior: func(d deps) {
				d.cache.EXPECT().Get("1").Return([]byte("garbage"), true).Once()
				d.cache.EXPECT().Delete("1").Once()
				d.repo.EXPECT().GetOrderByID(mock.Anything, int64(1)).Return(validOrder, nil).Once()
				d.cache.EXPECT().Set("1", validData).Once()
			},
			wantOrder: validOrder,
		},
		{
			name: "not found is not retried",
			mockBehavior: func(d deps) {
				d.cache.EXPECT().Get("1").Return(nil, false).Once()
				d.repo.EXPECT().GetOrderByID(mock.Anything, int64(1)).Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name: "retry after temporary error",
			mockBehavior: func(d deps) {
				d.cache.EXPECT().Get("1").Return(nil, false).Once()
				// первая попытка падает
				d.repo.EXPECT().GetOrderByID(mock.Anything, int64(1)).Return(entities.Order{}, errors.New("temporary error")).Once()
				d.repo.EXPECT().GetOrderByID(mock.Anything, int64(1)).Return(validOrder, nil).Once()
				d.cache.EXPECT().Set("1", validData).Once()
			},
			wantOrder: validOrder,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDeps(t)
			tc.mockBehavior(d)

			order, err := d.service(service.DeletionStrict).GetOrderByID(context.Background(), 1)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOrder, order)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	dbError := errors.New("db error")

	testCases := []struct {
		name         string
		status       entities.OrderStatus
		mockBehavior func(d deps)
		wantErr      error
	}{
		{
			name:   "OK",
			status: entities.StatusDelivered,
			mockBehavior: func(d deps) {
				d.repo.EXPECT().UpdateStatus(mock.Anything, int64(3), entities.StatusDelivered).Return(nil).Once()
				d.cache.EXPECT().Delete("3").Once()
			},
		},
		{
			name:         "invalid status",
			status:       "LOST",
			mockBehavior: func(d deps) {},
			wantErr:      entities.ErrInvalidStatus,
		},
		{
			name:   "not found",
			status: entities.StatusDelivered,
			mockBehavior: func(d deps) {
				d.repo.EXPECT().UpdateStatus(mock.Anything, int64(3), entities.StatusDelivered).Return(entities.ErrOrderNotFound).Once()
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name:   "db error",
			status: entities.StatusCancelled,
			mockBehavior: func(d deps) {
				d.repo.EXPECT().UpdateStatus(mock.Anything, int64(3), entities.StatusCancelled).Return(dbError).Once()
			},
			wantErr: dbError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDeps(t)
			tc.mockBehavior(d)

			err := d.service(service.DeletionStrict).UpdateStatus(context.Background(), 3, tc.status)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	d := newDeps(t)
	orders := []entities.Order{{ID: 1}, {ID: 2}}
	d.repo.EXPECT().ListOrders(mock.Anything).Return(orders, nil).Once()

	got, err := d.service(service.DeletionStrict).ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orders, got)
}

func TestOrderService_WarmUpCache(t *testing.T) {
	d := newDeps(t)
	orders := []entities.Order{{ID: 2}, {ID: 1}}
	d.repo.EXPECT().LatestOrders(mock.Anything, 2).Return(orders, nil).Once()
	d.cache.EXPECT().Set("2", mock.Anything).Once()
	d.cache.EXPECT().Set("1", mock.Anything).Once()

	require.NoError(t, d.service(service.DeletionStrict).WarmUpCache(context.Background(), 2))
}

func TestOrderService_WarmUpCache_Error(t *testing.T) {
	d := newDeps(t)
	dbError := errors.New("db error")
	d.repo.EXPECT().LatestOrders(mock.Anything, 5).Return(nil, dbError).Once()

	err := d.service(service.DeletionStrict).WarmUpCache(context.Background(), 5)
	assert.ErrorIs(t, err, dbError)
}

func TestOrderService_GetOrderByID_SkipsCacheAfterConcurrentChange(t *testing.T) {
	d := newDeps(t)
	svc := d.service(service.DeletionStrict)
	ctx := context.Background()

	stale := entities.Order{ID: 1, Status: entities.StatusInTransit}

	d.cache.EXPECT().Get("1").Return(nil, false).Once()
	d.repo.EXPECT().GetOrderByID(mock.Anything, int64(1)).
		RunAndReturn(func(ctx context.Context, _ int64) (entities.Order, error) {
			// статус сменился, пока шло чтение
			require.NoError(t, svc.UpdateStatus(ctx, 1, entities.StatusDelivered))
			return stale, nil
		}).Once()
	d.repo.EXPECT().UpdateStatus(mock.Anything, int64(1), entities.StatusDelivered).Return(nil).Once()
	d.cache.EXPECT().Delete("1").Once()

	got, err := svc.GetOrderByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, stale, got)
	d.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}
