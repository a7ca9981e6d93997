package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/utils"
)

// Запись статуса после ответа сервиса доставки повторяется: иначе заказ застрянет в CREATED.
var statusRetry = utils.RetryConfig{
	InitialDelay: 20 * time.Millisecond,
	MaxDelay:     200 * time.Millisecond,
	MaxAttempts:  4,
	Multiplier:   2,
}

// CreateOrder сохраняет заказ в статусе CREATED и создает для него доставку.
// После возврата заказ в базе находится в IN_TRANSIT, PROCESSING или CANCELLED.
//
// Между сохранением заказа и ответом сервиса доставки нет надежного журнала:
// если процесс упадет в этом окне или база недоступна дольше statusRetry,
// заказ останется в CREATED.
func (s *orderService) CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error) {
	if len(order.Items) == 0 {
		return entities.Order{}, entities.ErrEmptyItems
	}

	order.Status = entities.StatusCreated
	var created entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		saved, err := s.repo.SaveOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := s.repo.SaveItems(ctx, saved.ID, order.Items); err != nil {
			return fmt.Errorf("failed to save items: %w", err)
		}
		saved.Items = order.Items
		created = saved
		return nil
	})
	if err != nil {
		return entities.Order{}, err
	}

	logger := s.logger.With(slog.Int64("order_id", created.ID))
	logger.Debug("order saved", slog.Int("items", len(created.Items)))

	// клиент, бросивший запрос, не должен прерывать сагу на середине
	ctx = context.WithoutCancel(ctx)

	res, err := s.delivery.CreateDelivery(ctx, entities.DeliveryRequest{
		OrderID:    created.ID,
		Type:       created.DeliveryType,
		Address:    created.DeliveryAddress,
		OrderValue: created.TotalValue(),
		Notes:      created.Notes,
	})
	if err != nil {
		return entities.Order{}, s.compensateCreate(ctx, logger, created.ID, err)
	}

	status := entities.StatusInTransit
	if !res.Confirmed {
		logger.Warn("delivery service did not confirm delivery, order left processing", slog.Int("status_code", res.StatusCode))
		status = entities.StatusProcessing
	}

	// Доставка уже создана, откатывать нечего: после всех попыток заказ остается в CREATED до ручного разбора.
	if err := s.persistStatus(ctx, created.ID, status); err != nil {
		logger.Error("failed to persist order status after delivery creation",
			slog.String("status", string(status)),
			slog.Int64("delivery_id", res.Delivery.ID),
			slog.Any("error", err),
		)
		sagaOutcomes.WithLabelValues(sagaCreate, "status_update_failed").Inc()
		return entities.Order{}, fmt.Errorf("failed to update order #%d status: %w", created.ID, err)
	}

	created.Status = status
	s.cacheOrder(created)
	sagaOutcomes.WithLabelValues(sagaCreate, string(status)).Inc()

	logger.Info("order created", slog.String("status", string(status)), slog.Int64("delivery_id", res.Delivery.ID))
	return created, nil
}

// compensateCreate переводит заказ в CANCELLED после неудачного создания доставки.
func (s *orderService) compensateCreate(ctx context.Context, logger *slog.Logger, orderID int64, cause error) error {
	logger.Error("delivery creation failed, cancelling order", slog.Any("error", cause))

	if err := s.persistStatus(ctx, orderID, entities.StatusCancelled); err != nil {
		// заказ остался в CREATED
		logger.Error("CRITICAL: failed to cancel order after delivery failure", slog.Any("error", err))
		sagaOutcomes.WithLabelValues(sagaCreate, "compensation_failed").Inc()
		return &entities.SagaFailureError{OrderID: orderID, Err: errors.Join(cause, err)}
	}

	s.invalidate(orderID)
	sagaOutcomes.WithLabelValues(sagaCreate, string(entities.StatusCancelled)).Inc()
	return &entities.SagaFailureError{OrderID: orderID, Err: cause}
}

func (s *orderService) persistStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error {
	return utils.Retry(ctx, statusRetry, func() error {
		return s.repo.UpdateStatus(ctx, orderID, status)
	}, entities.ErrOrderNotFound)
}

// DeleteOrder удаляет доставку заказа и сам заказ. Доставленный заказ удалить нельзя.
// Если доставку удалить не удалось, поведение зависит от DeletionPolicy.
func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == entities.StatusDelivered {
		sagaOutcomes.WithLabelValues(sagaDelete, "conflict").Inc()
		return &entities.ConflictError{OrderID: orderID}
	}

	logger := s.logger.With(slog.Int64("order_id", orderID))
	ctx = context.WithoutCancel(ctx)

	if err := s.cleanupDelivery(ctx, logger, orderID); err != nil {
		if s.policy == DeletionStrict {
			logger.Error("failed to remove delivery, order kept", slog.Any("error", err))
			sagaOutcomes.WithLabelValues(sagaDelete, "cleanup_failed").Inc()
			return &entities.CleanupFailureError{OrderID: orderID, Err: err}
		}
		logger.Warn("failed to remove delivery, deleting order anyway", slog.Any("error", err))
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// статус мог смениться, пока шли запросы к сервису доставки
		current, err := s.repo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status == entities.StatusDelivered {
			return &entities.ConflictError{OrderID: orderID}
		}
		return s.repo.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		var conflict *entities.ConflictError
		if errors.As(err, &conflict) {
			sagaOutcomes.WithLabelValues(sagaDelete, "conflict").Inc()
		}
		return err
	}

	s.invalidate(orderID)
	sagaOutcomes.WithLabelValues(sagaDelete, "deleted").Inc()

	logger.Info("order deleted")
	return nil
}

// cleanupDelivery удаляет доставку заказа. Отсутствие доставки (404 на поиске или удалении)
// считается ошибкой очистки, как и сбой транспорта: решение принимает DeletionPolicy.
func (s *orderService) cleanupDelivery(ctx context.Context, logger *slog.Logger, orderID int64) error {
	d, err := s.delivery.GetDeliveryByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get delivery: %w", err)
	}

	if err := s.delivery.DeleteDelivery(ctx, d.ID); err != nil {
		return fmt.Errorf("failed to delete delivery #%d: %w", d.ID, err)
	}

	logger.Debug("delivery removed", slog.Int64("delivery_id", d.ID))
	return nil
}
