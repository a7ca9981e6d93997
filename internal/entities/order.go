package entities

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusCreated    OrderStatus = "CREATED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusInTransit  OrderStatus = "IN_TRANSIT"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "STANDARD"
	DeliveryExpress  DeliveryType = "EXPRESS"
	DeliveryPickup   DeliveryType = "PICKUP"
)

func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryStandard, DeliveryExpress, DeliveryPickup:
		return true
	}
	return false
}

type OrderItem struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal = UnitPrice * Quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              int64
	CustomerID      int64
	DeliveryAddress string
	Status          OrderStatus
	CreatedAt       time.Time
	DeliveryType    DeliveryType
	Notes           string

	// порядок позиций сохраняется
	Items []OrderItem
}

// TotalValue считается из позиций и нигде не хранится.
func (o Order) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}
	return nil
}

func init() {
	gob.Register(Order{})
	gob.Register(OrderItem{})
}
