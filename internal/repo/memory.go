package repo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
)

// memoryRepo хранит заказы в памяти процесса, ключ - id заказа.
type memoryRepo struct {
	mu     sync.RWMutex
	seq    int64
	orders map[int64]entities.Order
	now    func() time.Time
}

func NewMemoryRepo() *memoryRepo {
	return &memoryRepo{
		orders: make(map[int64]entities.Order),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepo) SaveOrder(_ context.Context, o entities.Order) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	o.ID = r.seq
	o.CreatedAt = r.now()
	o.Items = nil
	r.orders[o.ID] = o
	return o, nil
}

func (r *memoryRepo) SaveItems(_ context.Context, orderID int64, items []entities.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return entities.ErrOrderNotFound
	}
	o.Items = append(slices.Clone(o.Items), items...)
	r.orders[orderID] = o
	return nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, orderID int64, status entities.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return entities.ErrOrderNotFound
	}
	o.Status = status
	r.orders[orderID] = o
	return nil
}

func (r *memoryRepo) GetOrderByID(_ context.Context, orderID int64) (entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return clone(o), nil
}

func (r *memoryRepo) ListOrders(_ context.Context) ([]entities.Order, error) {
	orders := r.snapshot()
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *memoryRepo) LatestOrders(_ context.Context, count int) ([]entities.Order, error) {
	orders := r.snapshot()
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if len(orders) > count {
		orders = orders[:count]
	}
	return orders, nil
}

func (r *memoryRepo) DeleteOrder(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[orderID]; !ok {
		return entities.ErrOrderNotFound
	}
	delete(r.orders, orderID)
	return nil
}

func (r *memoryRepo) snapshot() []entities.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]entities.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, clone(o))
	}
	return orders
}

func clone(o entities.Order) entities.Order {
	o.Items = slices.Clone(o.Items)
	return o
}
