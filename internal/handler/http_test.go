package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/handler"
	mocks "github.com/SergeyBogomolovv/order-delivery-service/internal/handler/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validOrder = entities.Order{
	ID:              123,
	CustomerID:      1,
	DeliveryAddress: "Lenina 1",
	Status:          entities.StatusInTransit,
	DeliveryType:    entities.DeliveryExpress,
	CreatedAt:       time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	Items: []entities.OrderItem{
		{Product: "A", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{Product: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
	},
}

type testCase struct {
	name         string
	method       string
	path         string
	body         string
	mockBehavior func(svc *mocks.MockOrderService)
	wantStatus   int
	wantBody     string
}

func runCases(t *testing.T, testCases []testCase) {
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			if tc.mockBehavior != nil {
				tc.mockBehavior(svc)
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			h := handler.NewHTTPHandler(logger, svc)

			r := chi.NewRouter()
			h.Init(r)

			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			res := rr.Result()
			defer res.Body.Close()

			data, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Contains(t, string(data), tc.wantBody)
		})
	}
}

func TestHTTPHandler_GetOrderByID(t *testing.T) {
	runCases(t, []testCase{
		{
			name:   "success",
			method: http.MethodGet,
			path:   "/orders/123",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrderByID(mock.Anything, int64(123)).Return(validOrder, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total_value":"25.5"`,
		},
		{
			name:   "not found",
			method: http.MethodGet,
			path:   "/orders/404",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrderByID(mock.Anything, int64(404)).Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"order not found"`,
		},
		{
			name:       "invalid id",
			method:     http.MethodGet,
			path:       "/orders/abc",
			wantStatus: http.StatusBadRequest,
			wantBody:   `"invalid order id"`,
		},
		{
			name:   "internal error",
			method: http.MethodGet,
			path:   "/orders/123",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrderByID(mock.Anything, int64(123)).Return(entities.Order{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal server error"`,
		},
	})
}

func TestHTTPHandler_GetOrderByID_Body(t *testing.T) {
	svc := mocks.NewMockOrderService(t)
	svc.EXPECT().GetOrderByID(mock.Anything, int64(123)).Return(validOrder, nil).Once()

	r := chi.NewRouter()
	handler.NewHTTPHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).Init(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/123", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handler.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(123), resp.ID)
	assert.Equal(t, "IN_TRANSIT", resp.Status)
	assert.Equal(t, "EXPRESS", resp.DeliveryType)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "A", resp.Items[0].Product)
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.RequireFromString("20")))
	assert.True(t, resp.TotalValue.Equal(decimal.RequireFromString("25.50")))
}

func TestHTTPHandler_CreateOrder(t *testing.T) {
	const validBody = `{
		"customer_id": 1,
		"delivery_address": "Lenina 1",
		"delivery_type": "EXPRESS",
		"items": [
			{"product": "A", "quantity": 2, "unit_price": 10.00},
			{"product": "B", "quantity": 1, "unit_price": "5.50"}
		]
	}`

	isValidOrder := mock.MatchedBy(func(o entities.Order) bool {
		return o.CustomerID == 1 &&
			o.DeliveryType == entities.DeliveryExpress &&
			len(o.Items) == 2 && o.Items[0].Product == "A" &&
			o.TotalValue().Equal(decimal.RequireFromString("25.50"))
	})

	runCases(t, []testCase{
		{
			name:   "created",
			method: http.MethodPost,
			path:   "/orders",
			body:   validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, isValidOrder).Return(validOrder, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"status":"IN_TRANSIT"`,
		},
		{
			name:   "delivery failed",
			method: http.MethodPost,
			path:   "/orders",
			body:   validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, isValidOrder).
					Return(entities.Order{}, &entities.SagaFailureError{OrderID: 5, Err: errors.New("timeout")}).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"delivery creation failed, order #5 cancelled"`,
		},
		{
			name:       "empty items",
			method:     http.MethodPost,
			path:       "/orders",
			body:       `{"customer_id":1,"delivery_address":"x","delivery_type":"STANDARD","items":[]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"Items":"min"`,
		},
		{
			name:       "zero price",
			method:     http.MethodPost,
			path:       "/orders",
			body:       `{"customer_id":1,"delivery_address":"x","delivery_type":"STANDARD","items":[{"product":"A","quantity":1,"unit_price":0}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"UnitPrice":"required"`,
		},
		{
			name:       "negative price",
			method:     http.MethodPost,
			path:       "/orders",
			body:       `{"customer_id":1,"delivery_address":"x","delivery_type":"STANDARD","items":[{"product":"A","quantity":1,"unit_price":-1}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"UnitPrice":"gt"`,
		},
		{
			name:       "unknown delivery type",
			method:     http.MethodPost,
			path:       "/orders",
			body:       `{"customer_id":1,"delivery_address":"x","delivery_type":"DRONE","items":[{"product":"A","quantity":1,"unit_price":1}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"DeliveryType":"oneof"`,
		},
		{
			name:       "unknown field",
			method:     http.MethodPost,
			path:       "/orders",
			body:       `{"customer_id":1,"total":5}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"invalid request body"`,
		},
	})
}

func TestHTTPHandler_ListOrders(t *testing.T) {
	runCases(t, []testCase{
		{
			name:   "success",
			method: http.MethodGet,
			path:   "/orders",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().ListOrders(mock.Anything).Return([]entities.Order{validOrder}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":123`,
		},
		{
			name:   "empty",
			method: http.MethodGet,
			path:   "/orders",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().ListOrders(mock.Anything).Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
	})
}

func TestHTTPHandler_UpdateStatus(t *testing.T) {
	runCases(t, []testCase{
		{
			name:   "updated",
			method: http.MethodPut,
			path:   "/orders/123/status",
			body:   `{"status":"DELIVERED"}`,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().UpdateStatus(mock.Anything, int64(123), entities.StatusDelivered).Return(nil).Once()
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown status",
			method:     http.MethodPut,
			path:       "/orders/123/status",
			body:       `{"status":"LOST"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"Status":"oneof"`,
		},
		{
			name:   "not found",
			method: http.MethodPut,
			path:   "/orders/9/status",
			body:   `{"status":"CANCELLED"}`,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().UpdateStatus(mock.Anything, int64(9), entities.StatusCancelled).Return(entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"order not found"`,
		},
	})
}

func TestHTTPHandler_DeleteOrder(t *testing.T) {
	runCases(t, []testCase{
		{
			name:   "deleted",
			method: http.MethodDelete,
			path:   "/orders/123",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().DeleteOrder(mock.Anything, int64(123)).Return(nil).Once()
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "delivered",
			method: http.MethodDelete,
			path:   "/orders/123",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().DeleteOrder(mock.Anything, int64(123)).Return(&entities.ConflictError{OrderID: 123}).Once()
			},
			wantStatus: http.StatusConflict,
			wantBody:   `"order_id":123`,
		},
		{
			name:   "not found",
			method: http.MethodDelete,
			path:   "/orders/1",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().DeleteOrder(mock.Anything, int64(1)).Return(entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "cleanup failed",
			method: http.MethodDelete,
			path:   "/orders/123",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().DeleteOrder(mock.Anything, int64(123)).
					Return(&entities.CleanupFailureError{OrderID: 123, Err: errors.New("timeout")}).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"failed to remove delivery, order #123 not deleted"`,
		},
		{
			name:       "invalid id",
			method:     http.MethodDelete,
			path:       "/orders/0",
			wantStatus: http.StatusBadRequest,
		},
	})
}
