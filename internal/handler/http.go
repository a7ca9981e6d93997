package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: newValidator(),
		svc:      svc,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrderByID)
		r.Put("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.DeleteOrder)
	})
}

// CreateOrder создает заказ и запрашивает для него доставку.
// @Summary      Создать заказ
// @Description  Сохраняет заказ и создает доставку. Если сервис доставки недоступен, заказ отменяется
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      CreateOrderRequest  true  "Заказ"
// @Success      201    {object}  Order
// @Failure      400    {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      500    {object}  utils.ErrorResponse "Доставка не создана, заказ отменен"
// @Router       /orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	defer observe("create", time.Now())
	ctx := r.Context()

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		countRequest("create", http.StatusBadRequest)
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		countRequest("create", http.StatusBadRequest)
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.CreateOrder(ctx, req.ToEntity())
	if err != nil {
		h.writeError(ctx, w, "create", err)
		return
	}

	countRequest("create", http.StatusCreated)
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// ListOrders возвращает все заказы.
// @Summary      Список заказов
// @Tags         orders
// @Produce      json
// @Success      200  {array}   Order
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	defer observe("list", time.Now())
	ctx := r.Context()

	orders, err := h.svc.ListOrders(ctx)
	if err != nil {
		h.writeError(ctx, w, "list", err)
		return
	}

	res := make([]Order, 0, len(orders))
	for _, o := range orders {
		res = append(res, OrderEntityToJSON(o))
	}

	countRequest("list", http.StatusOK)
	utils.WriteJSON(w, res, http.StatusOK)
}

// GetOrderByID возвращает заказ по ID.
// @Summary      Получить заказ по ID
// @Description  Возвращает заказ вместе с позициями и итоговой суммой
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "ID заказа"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Некорректный ID"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders/{id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	defer observe("get", time.Now())
	ctx := r.Context()

	orderID, ok := h.orderID(w, r, "get")
	if !ok {
		return
	}

	order, err := h.svc.GetOrderByID(ctx, orderID)
	if err != nil {
		h.writeError(ctx, w, "get", err)
		return
	}

	countRequest("get", http.StatusOK)
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// UpdateStatus меняет статус заказа.
// @Summary      Сменить статус заказа
// @Tags         orders
// @Accept       json
// @Param        id      path  int                  true  "ID заказа"
// @Param        status  body  UpdateStatusRequest  true  "Новый статус"
// @Success      204
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders/{id}/status [put]
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	defer observe("update_status", time.Now())
	ctx := r.Context()

	orderID, ok := h.orderID(w, r, "update_status")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		countRequest("update_status", http.StatusBadRequest)
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		countRequest("update_status", http.StatusBadRequest)
		utils.WriteValidationError(w, err)
		return
	}

	if err := h.svc.UpdateStatus(ctx, orderID, entities.OrderStatus(req.Status)); err != nil {
		h.writeError(ctx, w, "update_status", err)
		return
	}

	countRequest("update_status", http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOrder удаляет заказ и его доставку.
// @Summary      Удалить заказ
// @Description  Удаляет доставку и заказ. Доставленный заказ удалить нельзя
// @Tags         orders
// @Param        id   path  int  true  "ID заказа"
// @Success      204
// @Failure      400  {object}  utils.ErrorResponse "Некорректный ID"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      409  {object}  utils.ConflictResponse "Заказ уже доставлен"
// @Failure      500  {object}  utils.ErrorResponse "Не удалось удалить доставку"
// @Router       /orders/{id} [delete]
func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	defer observe("delete", time.Now())
	ctx := r.Context()

	orderID, ok := h.orderID(w, r, "delete")
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(ctx, orderID); err != nil {
		h.writeError(ctx, w, "delete", err)
		return
	}

	countRequest("delete", http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) orderID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		countRequest(op, http.StatusBadRequest)
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var (
		conflict *entities.ConflictError
		saga     *entities.SagaFailureError
		cleanup  *entities.CleanupFailureError
	)

	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		countRequest(op, http.StatusNotFound)
		utils.WriteError(w, "order not found", http.StatusNotFound)

	case errors.Is(err, entities.ErrEmptyItems), errors.Is(err, entities.ErrInvalidStatus):
		countRequest(op, http.StatusBadRequest)
		utils.WriteError(w, err.Error(), http.StatusBadRequest)

	case errors.As(err, &conflict):
		countRequest(op, http.StatusConflict)
		utils.WriteConflict(w, "delivery already completed, order cannot be deleted", conflict.OrderID)

	case errors.As(err, &saga):
		countRequest(op, http.StatusInternalServerError)
		utils.WriteError(w, fmt.Sprintf("delivery creation failed, order #%d cancelled", saga.OrderID), http.StatusInternalServerError)

	case errors.As(err, &cleanup):
		countRequest(op, http.StatusInternalServerError)
		utils.WriteError(w, fmt.Sprintf("failed to remove delivery, order #%d not deleted", cleanup.OrderID), http.StatusInternalServerError)

	default:
		h.logger.ErrorContext(ctx, "request failed", slog.String("op", op), slog.Any("error", err))
		countRequest(op, http.StatusInternalServerError)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
