package entities

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidOrder     = errors.New("invalid order")
	ErrEmptyItems       = errors.New("order must contain at least one item")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrDeliveryNotFound = errors.New("delivery not found")
	ErrNoToken          = errors.New("no valid service token")
)

// ConflictError запрещает удаление уже доставленного заказа.
type ConflictError struct {
	OrderID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order #%d cannot be deleted: it has already been delivered", e.OrderID)
}

// SagaFailureError возвращается, если доставку не удалось создать после сохранения заказа.
// Заказ переведен в CANCELLED.
type SagaFailureError struct {
	OrderID int64
	Err     error
}

func (e *SagaFailureError) Error() string {
	return fmt.Sprintf("delivery creation failed, order #%d cancelled: %v", e.OrderID, e.Err)
}

func (e *SagaFailureError) Unwrap() error {
	return e.Err
}

// CleanupFailureError возвращается в строгом режиме удаления, если доставку
// не удалось удалить или найти. Заказ остается в базе.
type CleanupFailureError struct {
	OrderID int64
	Err     error
}

func (e *CleanupFailureError) Error() string {
	return fmt.Sprintf("failed to remove delivery of order #%d, order not deleted: %v", e.OrderID, e.Err)
}

func (e *CleanupFailureError) Unwrap() error {
	return e.Err
}
