package trm

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ExtractTx возвращает транзакцию из контекста, если она есть.
func ExtractTx(ctx context.Context) *sqlx.Tx {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	if !ok {
		return nil
	}
	return tx
}

type Manager interface {
	// Do выполняет callback в транзакции. Вложенный вызов присоединяется к внешней.
	Do(ctx context.Context, callback func(ctx context.Context) error) error
}

type txManager struct {
	db   *sqlx.DB
	opts *sql.TxOptions
}

func NewManager(db *sqlx.DB) Manager {
	return &txManager{
		db:   db,
		opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	}
}

func (t *txManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	if ExtractTx(ctx) != nil {
		return callback(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, t.opts)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := callback(withTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

type nopManager struct{}

// NewNopManager для хранилищ, атомарных на уровне одного вызова (in-memory).
func NewNopManager() Manager {
	return nopManager{}
}

func (nopManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}
