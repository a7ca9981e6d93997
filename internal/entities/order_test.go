package entities_test

import (
	"testing"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_TotalValue(t *testing.T) {
	testCases := []struct {
		name  string
		items []entities.OrderItem
		want  string
	}{
		{
			name: "two items",
			items: []entities.OrderItem{
				{Product: "A", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
				{Product: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
			},
			want: "25.50",
		},
		{
			name: "no float rounding",
			items: []entities.OrderItem{
				{Product: "A", Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
				{Product: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("0.20")},
			},
			want: "0.50",
		},
		{
			name: "empty",
			want: "0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order := entities.Order{Items: tc.items}
			got := order.TotalValue()
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestOrder_MarshalRoundTrip(t *testing.T) {
	order := entities.Order{
		ID:              7,
		CustomerID:      42,
		DeliveryAddress: "Main st. 1",
		Status:          entities.StatusInTransit,
		DeliveryType:    entities.DeliveryExpress,
		Items: []entities.OrderItem{
			{Product: "A", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}

	data, err := order.Marshal()
	require.NoError(t, err)

	var got entities.Order
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.Status, got.Status)
	assert.True(t, order.TotalValue().Equal(got.TotalValue()))

	err = got.Unmarshal([]byte("broken"))
	assert.ErrorIs(t, err, entities.ErrInvalidOrder)
}
