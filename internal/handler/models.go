package handler

import (
	"reflect"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// OrderItem позиция заказа
type OrderItem struct {
	Product   string          `json:"product" validate:"required,max=255"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required,gt=0" swaggertype:"string" example:"10.00"`
	Subtotal  decimal.Decimal `json:"subtotal" validate:"-" swaggertype:"string" example:"20.00"`
}

// CreateOrderRequest запрос на создание заказа
type CreateOrderRequest struct {
	CustomerID      int64       `json:"customer_id" validate:"required,gt=0"`
	DeliveryAddress string      `json:"delivery_address" validate:"required,max=500"`
	DeliveryType    string      `json:"delivery_type" validate:"required,oneof=STANDARD EXPRESS PICKUP" enums:"STANDARD,EXPRESS,PICKUP"`
	Notes           string      `json:"notes,omitempty" validate:"max=1000"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED PROCESSING IN_TRANSIT DELIVERED CANCELLED" enums:"CREATED,PROCESSING,IN_TRANSIT,DELIVERED,CANCELLED"`
}

// Order представляет заказ
type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	DeliveryAddress string          `json:"delivery_address"`
	Status          string          `json:"status"`
	DeliveryType    string          `json:"delivery_type"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalValue      decimal.Decimal `json:"total_value" swaggertype:"string" example:"25.50"`
	Items           []OrderItem     `json:"items"`
}

// StatusEvent сообщение сервиса доставки о смене статуса заказа
type StatusEvent struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required,oneof=CREATED PROCESSING IN_TRANSIT DELIVERED CANCELLED"`
}

// newValidator учит validator сравнивать decimal.Decimal как число.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func (r CreateOrderRequest) ToEntity() entities.Order {
	items := make([]entities.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.OrderItem{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return entities.Order{
		CustomerID:      r.CustomerID,
		DeliveryAddress: r.DeliveryAddress,
		DeliveryType:    entities.DeliveryType(r.DeliveryType),
		Notes:           r.Notes,
		Items:           items,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}

	return Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		DeliveryAddress: o.DeliveryAddress,
		Status:          string(o.Status),
		DeliveryType:    string(o.DeliveryType),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		TotalValue:      o.TotalValue(),
		Items:           items,
	}
}
