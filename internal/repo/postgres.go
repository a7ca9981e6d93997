package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var orderColumns = []string{
	"id", "customer_id", "delivery_address", "status",
	"delivery_type", "notes", "created_at",
}

var itemColumns = []string{"order_id", "position", "product", "quantity", "unit_price"}

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	query, args := r.qb.Insert("orders").
		Columns("customer_id", "delivery_address", "status", "delivery_type", "notes").
		Values(o.CustomerID, o.DeliveryAddress, string(o.Status), string(o.DeliveryType), nullString(o.Notes)).
		Suffix("RETURNING id, created_at").
		MustSql()

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := r.getContext(ctx, &row, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	o.ID = row.ID
	o.CreatedAt = row.CreatedAt
	return o, nil
}

func (r *postgresRepo) SaveItems(ctx context.Context, orderID int64, items []entities.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").Columns(itemColumns...)
	for i, it := range items {
		q = q.Values(orderID, i, it.Product, it.Quantity, it.UnitPrice)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	return nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error {
	query, args := r.qb.Update("orders").
		Set("status", string(status)).
		Where(sq.Eq{"id": orderID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return checkAffected(res)
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.selectItems(ctx, []int64{orderID})
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, items[orderID]), nil
}

func (r *postgresRepo) ListOrders(ctx context.Context) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		OrderBy("id").
		MustSql()

	return r.selectOrders(ctx, query, args...)
}

func (r *postgresRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(count)).
		MustSql()

	return r.selectOrders(ctx, query, args...)
}

// DeleteOrder удаляет заказ, позиции удаляются каскадно.
func (r *postgresRepo) DeleteOrder(ctx context.Context, orderID int64) error {
	query, args := r.qb.Delete("orders").
		Where(sq.Eq{"id": orderID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return checkAffected(res)
}

func (r *postgresRepo) selectOrders(ctx context.Context, query string, args ...any) ([]entities.Order, error) {
	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]int64, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	items, err := r.selectItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, items[order.ID]))
	}
	return result, nil
}

func (r *postgresRepo) selectItems(ctx context.Context, orderIDs []int64) (map[int64][]Item, error) {
	query, args := r.qb.Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "position").
		MustSql()

	var items []Item
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}

	result := make(map[int64][]Item, len(orderIDs))
	for _, item := range items {
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
