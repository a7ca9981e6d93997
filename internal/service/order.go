package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/trm"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/utils"
)

type OrderRepo interface {
	// SaveOrder назначает id и created_at
	SaveOrder(ctx context.Context, o entities.Order) (entities.Order, error)
	SaveItems(ctx context.Context, orderID int64, items []entities.OrderItem) error
	UpdateStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error
	GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
	// Позиции удаляются каскадно
	DeleteOrder(ctx context.Context, orderID int64) error
}

type DeliveryClient interface {
	CreateDelivery(ctx context.Context, r entities.DeliveryRequest) (entities.DeliveryResult, error)
	GetDeliveryByOrderID(ctx context.Context, orderID int64) (entities.Delivery, error)
	DeleteDelivery(ctx context.Context, deliveryID int64) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// DeletionPolicy определяет, что делать, если доставку не удалось удалить.
type DeletionPolicy string

const (
	// DeletionStrict прерывает удаление, заказ остается.
	DeletionStrict DeletionPolicy = "strict"
	// DeletionBestEffort логирует ошибку и удаляет заказ, доставка остается висеть.
	DeletionBestEffort DeletionPolicy = "best-effort"
)

var readRetry = utils.RetryConfig{
	InitialDelay: 100 * time.Millisecond,
	MaxAttempts:  5,
	Multiplier:   2,
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	delivery  DeliveryClient
	cache     Cache
	policy    DeletionPolicy

	// растет при каждой инвалидации; чтение из базы не кэшируется, если за время чтения он изменился
	invalidations atomic.Uint64
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo OrderRepo,
	delivery DeliveryClient,
	cache Cache,
	policy DeletionPolicy,
) *orderService {
	if policy != DeletionBestEffort {
		policy = DeletionStrict
	}
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		delivery:  delivery,
		cache:     cache,
		policy:    policy,
	}
}

func cacheKey(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}

// invalidate убирает заказ из кэша после изменения в базе.
func (s *orderService) invalidate(orderID int64) {
	s.invalidations.Add(1)
	s.cache.Delete(cacheKey(orderID))
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	key := cacheKey(orderID)
	if data, ok := s.cache.Get(key); ok {
		var order entities.Order
		err := order.Unmarshal(data)
		if err == nil {
			return order, nil
		}
		s.logger.Error("failed to unmarshal cached order", slog.Int64("order_id", orderID), slog.Any("error", err))
		s.cache.Delete(key)
	}

	gen := s.invalidations.Load()
	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, orderID)
		return err
	}
	if err := utils.Retry(ctx, readRetry, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	// Заказ могли изменить или удалить, пока шло чтение: такой снимок в кэш не кладем.
	if s.invalidations.Load() == gen {
		s.cacheOrder(order)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]entities.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus меняет статус без проверки переходов: статусы доставки приходят извне.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.invalidate(orderID)

	s.logger.Debug("order status updated", slog.Int64("order_id", orderID), slog.String("status", string(status)))
	return nil
}

// WarmUpCache загружает в кэш count последних заказов.
func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	orders, err := s.repo.LatestOrders(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to load latest orders: %w", err)
	}

	for _, order := range orders {
		s.cacheOrder(order)
	}

	s.logger.Info("cache warmed up", slog.Int("count", len(orders)))
	return nil
}

func (s *orderService) cacheOrder(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.Int64("order_id", order.ID), slog.Any("error", err))
		return
	}
	s.cache.Set(cacheKey(order.ID), data)
}
