package delivery_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/delivery"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

type failingToken struct{}

func (failingToken) Token(context.Context) (string, error) { return "", entities.ErrNoToken }

func newClient(t *testing.T, h http.HandlerFunc) *delivery.Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return delivery.NewClient(logger, config.Delivery{URL: srv.URL + "/", Timeout: time.Second}, staticToken("svc-token"))
}

func TestClient_CreateDelivery(t *testing.T) {
	req := entities.DeliveryRequest{
		OrderID:    7,
		Type:       entities.DeliveryExpress,
		Address:    "Lenina 1",
		OrderValue: decimal.RequireFromString("25.50"),
		Notes:      "ring twice",
	}

	testCases := []struct {
		name          string
		status        int
		body          string
		wantErr       bool
		wantConfirmed bool
		wantID        int64
	}{
		{name: "created", status: http.StatusCreated, body: `{"id":42,"order_id":7,"status":"ASSIGNED"}`, wantConfirmed: true, wantID: 42},
		{name: "ok", status: http.StatusOK, body: `{"id":43,"order_id":7}`, wantConfirmed: true, wantID: 43},
		{name: "accepted without body", status: http.StatusAccepted},
		{name: "no content", status: http.StatusNoContent},
		{name: "bad request", status: http.StatusBadRequest, body: `invalid address`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/deliveries", r.URL.Path)
				assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))
				assert.NotEmpty(t, r.Header.Get(middleware.RequestIDHeader))

				var got map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, float64(7), got["order_id"])
				assert.Equal(t, "EXPRESS", got["type"])
				assert.Equal(t, "Lenina 1", got["address"])
				assert.Equal(t, "25.5", got["order_value"])
				assert.Equal(t, "ring twice", got["notes"])

				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})

			res, err := c.CreateDelivery(context.Background(), req)
			if tc.wantErr {
				var se *delivery.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tc.status, se.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			assert.Equal(t, tc.wantConfirmed, res.Confirmed)
			assert.Equal(t, tc.wantID, res.Delivery.ID)
		})
	}
}

func TestClient_CreateDelivery_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := delivery.NewClient(logger, config.Delivery{URL: srv.URL, Timeout: time.Second}, staticToken("t"))

	_, err := c.CreateDelivery(context.Background(), entities.DeliveryRequest{OrderID: 1})
	assert.Error(t, err)
}

func TestClient_GetDeliveryByOrderID(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantID  int64
		wantErr error
	}{
		{name: "found", status: http.StatusOK, body: `{"id":5,"order_id":9,"courier_id":3,"status":"IN_PROGRESS"}`, wantID: 5},
		{name: "not found", status: http.StatusNotFound, wantErr: entities.ErrDeliveryNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/deliveries/order/9", r.URL.Path)
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})

			d, err := c.GetDeliveryByOrderID(context.Background(), 9)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, d.ID)
			assert.Equal(t, int64(3), d.CourierID)
		})
	}
}

func TestClient_DeleteDelivery(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		wantErr    error
		wantStatus bool
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "not found", status: http.StatusNotFound, wantErr: entities.ErrDeliveryNotFound},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantStatus: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/deliveries/5", r.URL.Path)
				w.WriteHeader(tc.status)
			})

			err := c.DeleteDelivery(context.Background(), 5)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantStatus:
				var se *delivery.StatusError
				assert.ErrorAs(t, err, &se)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_PropagatesRequestID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-1", r.Header.Get(middleware.RequestIDHeader))
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	require.NoError(t, c.DeleteDelivery(ctx, 5))
}

func TestClient_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent without a token")
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := delivery.NewClient(logger, config.Delivery{URL: srv.URL, Timeout: time.Second}, failingToken{})

	err := c.DeleteDelivery(context.Background(), 1)
	assert.True(t, errors.Is(err, entities.ErrNoToken))
}
