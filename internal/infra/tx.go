package infra

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoTransactions is returned when the executor cannot open a transaction.
var ErrNoTransactions = errors.New("sql executor does not support transactions")

// Transactor runs fn inside one transaction. Statements that belong to the
// transaction must go through the executor handed to fn.
type Transactor interface {
	InTx(ctx context.Context, fn func(SQLExecutor) error) error
}

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx commits when fn returns nil and rolls back otherwise. Called on a
// runner that is already inside a transaction it opens a savepoint.
func (r *SQLRunner) InTx(ctx context.Context, fn func(SQLExecutor) error) error {
	db, ok := r.db.(beginner)
	if !ok {
		return ErrNoTransactions
	}
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return fn(&SQLRunner{db: tx, logger: r.logger, observer: r.observer, slow: r.slow})
	})
}

// WithTx runs fn in a transaction on db.
func WithTx(ctx context.Context, db SQLExecutor, fn func(SQLExecutor) error) error {
	t, ok := db.(Transactor)
	if !ok {
		return ErrNoTransactions
	}
	return t.InTx(ctx, fn)
}

var _ Transactor = (*SQLRunner)(nil)
