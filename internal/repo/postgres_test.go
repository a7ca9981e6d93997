package repo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/postgres"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/trm"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тесты ходят в настоящий PostgreSQL: POSTGRES_INTEGRATION=1 и обычные POSTGRES_* переменные.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("POSTGRES_INTEGRATION") == "" {
		t.Skip("POSTGRES_INTEGRATION is not set")
	}

	cfg, err := config.New()
	require.NoError(t, err)

	db, err := postgres.New(cfg.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.Migrate(db))
	_, err = db.Exec("TRUNCATE orders RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	return db
}

func TestPostgresRepo(t *testing.T) {
	db := newTestDB(t)
	r := NewPostgresRepo(db)
	ctx := context.Background()

	items := []entities.OrderItem{
		{Product: "B", Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		{Product: "A", Quantity: 1, UnitPrice: decimal.RequireFromString("99.99")},
	}

	order := newOrder(42)
	order.Notes = "call first"
	saved, err := r.SaveOrder(ctx, order)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	require.NoError(t, r.SaveItems(ctx, saved.ID, items))

	t.Run("get keeps item order and exact prices", func(t *testing.T) {
		got, err := r.GetOrderByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "call first", got.Notes)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "B", got.Items[0].Product)
		assert.True(t, got.TotalValue().Equal(decimal.RequireFromString("100.29")))
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, r.UpdateStatus(ctx, saved.ID, entities.StatusInTransit))
		got, err := r.GetOrderByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusInTransit, got.Status)

		assert.ErrorIs(t, r.UpdateStatus(ctx, 999999, entities.StatusDelivered), entities.ErrOrderNotFound)
	})

	t.Run("list and latest", func(t *testing.T) {
		second, err := r.SaveOrder(ctx, newOrder(7))
		require.NoError(t, err)

		all, err := r.ListOrders(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		latest, err := r.LatestOrders(ctx, 1)
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, second.ID, latest[0].ID)
	})

	t.Run("rollback drops order and items", func(t *testing.T) {
		tm := trm.NewManager(db)
		var id int64
		rollback := errors.New("rollback")

		err := tm.Do(ctx, func(ctx context.Context) error {
			o, err := r.SaveOrder(ctx, newOrder(1))
			if err != nil {
				return err
			}
			id = o.ID
			if err := r.SaveItems(ctx, o.ID, items); err != nil {
				return err
			}
			return rollback
		})
		require.ErrorIs(t, err, rollback)

		_, err = r.GetOrderByID(ctx, id)
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("delete cascades items", func(t *testing.T) {
		require.NoError(t, r.DeleteOrder(ctx, saved.ID))

		_, err := r.GetOrderByID(ctx, saved.ID)
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)

		var count int
		require.NoError(t, db.Get(&count, "SELECT count(*) FROM order_items WHERE order_id = $1", saved.ID))
		assert.Zero(t, count)

		assert.ErrorIs(t, r.DeleteOrder(ctx, saved.ID), entities.ErrOrderNotFound)
	})
}
