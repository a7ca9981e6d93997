package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery - запись сервиса доставки. Сервису заказов нужен только ее ID.
type Delivery struct {
	ID        int64
	OrderID   int64
	CourierID int64
	Status    string
	StartedAt time.Time
}

type DeliveryRequest struct {
	OrderID    int64
	Type       DeliveryType
	Address    string
	OrderValue decimal.Decimal
	Notes      string
}

// DeliveryResult - ответ на создание доставки. Confirmed == false, если сервис ответил
// без ошибки, но доставку не подтвердил (например, 202 Accepted).
type DeliveryResult struct {
	Delivery   Delivery
	Confirmed  bool
	StatusCode int
}
