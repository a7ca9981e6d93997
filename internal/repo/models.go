package repo

import (
	"database/sql"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64          `db:"id"`
	CustomerID      int64          `db:"customer_id"`
	DeliveryAddress string         `db:"delivery_address"`
	Status          string         `db:"status"`
	DeliveryType    string         `db:"delivery_type"`
	Notes           sql.NullString `db:"notes"`
	CreatedAt       time.Time      `db:"created_at"`
}

type Item struct {
	OrderID   int64           `db:"order_id"`
	Position  int             `db:"position"`
	Product   string          `db:"product"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

func ItemToEntity(i Item) entities.OrderItem {
	return entities.OrderItem{
		Product:   i.Product,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
	}
}

func OrderToEntity(o Order, items []Item) entities.Order {
	order := entities.Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		DeliveryAddress: o.DeliveryAddress,
		Status:          entities.OrderStatus(o.Status),
		CreatedAt:       o.CreatedAt,
		DeliveryType:    entities.DeliveryType(o.DeliveryType),
		Notes:           nullStringToString(o.Notes),
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, ItemToEntity(it))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
