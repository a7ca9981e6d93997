package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusError - ответ сервиса доставки с кодом >= 400.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("delivery service returned %d", e.Code)
	}
	return fmt.Sprintf("delivery service returned %d: %s", e.Code, e.Body)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type deliveryRequest struct {
	OrderID    int64           `json:"order_id"`
	Type       string          `json:"type"`
	Address    string          `json:"address"`
	OrderValue decimal.Decimal `json:"order_value"`
	Notes      string          `json:"notes,omitempty"`
}

type deliveryResponse struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	CourierID int64     `json:"courier_id"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

func (d deliveryResponse) toEntity() entities.Delivery {
	return entities.Delivery{
		ID:        d.ID,
		OrderID:   d.OrderID,
		CourierID: d.CourierID,
		Status:    d.Status,
		StartedAt: d.StartedAt,
	}
}

type Client struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	tokens  TokenSource
}

func NewClient(logger *slog.Logger, cfg config.Delivery, tokens TokenSource) *Client {
	return &Client{
		logger:  logger.With(slog.String("client", "delivery")),
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		tokens:  tokens,
	}
}

// CreateDelivery создает доставку заказа. Любой статус ниже 400 считается успехом,
// подтвержденной доставка считается только при 200 и 201.
func (c *Client) CreateDelivery(ctx context.Context, r entities.DeliveryRequest) (entities.DeliveryResult, error) {
	body := deliveryRequest{
		OrderID:    r.OrderID,
		Type:       string(r.Type),
		Address:    r.Address,
		OrderValue: r.OrderValue,
		Notes:      r.Notes,
	}

	resp, err := c.do(ctx, "create", http.MethodPost, "/deliveries", body)
	if err != nil {
		return entities.DeliveryResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return entities.DeliveryResult{}, statusError(resp)
	}

	res := entities.DeliveryResult{
		StatusCode: resp.StatusCode,
		Confirmed:  resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated,
	}

	// тело может быть пустым (202, 204)
	var d deliveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil && err != io.EOF {
		if res.Confirmed {
			return entities.DeliveryResult{}, fmt.Errorf("failed to decode delivery: %w", err)
		}
		c.logger.WarnContext(ctx, "unreadable delivery response body", slog.Int("status", resp.StatusCode), slog.Any("error", err))
	}
	res.Delivery = d.toEntity()
	return res, nil
}

// GetDeliveryByOrderID на 404 возвращает entities.ErrDeliveryNotFound.
func (c *Client) GetDeliveryByOrderID(ctx context.Context, orderID int64) (entities.Delivery, error) {
	resp, err := c.do(ctx, "get", http.MethodGet, "/deliveries/order/"+strconv.FormatInt(orderID, 10), nil)
	if err != nil {
		return entities.Delivery{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entities.Delivery{}, entities.ErrDeliveryNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return entities.Delivery{}, statusError(resp)
	}

	var d deliveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return entities.Delivery{}, fmt.Errorf("failed to decode delivery: %w", err)
	}
	return d.toEntity(), nil
}

// DeleteDelivery на 404 возвращает entities.ErrDeliveryNotFound.
func (c *Client) DeleteDelivery(ctx context.Context, deliveryID int64) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, "/deliveries/"+strconv.FormatInt(deliveryID, 10), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entities.ErrDeliveryNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any) (resp *http.Response, err error) {
	start := time.Now()
	defer func() {
		result := "error"
		if err == nil {
			result = strconv.Itoa(resp.StatusCode)
		}
		requestDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, reqID)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delivery service %s %s: %w", method, path, err)
	}

	c.logger.DebugContext(ctx, "delivery service call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", reqID),
	)
	return resp, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}
