package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// stubTx records statements and how the transaction ended.
type stubTx struct {
	pgx.Tx
	db       *stubDB
	commits  int
	rollback int
	closed   bool
}

func (t *stubTx) Exec(ctx context.Context, q string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, q, args...)
}

func (t *stubTx) QueryRow(ctx context.Context, q string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, q, args...)
}

func (t *stubTx) Query(ctx context.Context, q string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t *stubTx) Commit(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.commits++
	return nil
}

func (t *stubTx) Rollback(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.rollback++
	return nil
}

type stubPool struct {
	stubDB
	tx *stubTx
}

func (p *stubPool) Begin(context.Context) (pgx.Tx, error) {
	p.tx = &stubTx{db: &p.stubDB}
	return p.tx, nil
}

func TestSQLRunnerInTx(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name       string
		fnErr      error
		wantCommit int
		wantRoll   int
	}{
		{name: "commit", wantCommit: 1},
		{name: "rollback on error", fnErr: boom, wantRoll: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := &stubPool{}
			obs := &recordingObserver{}
			r := NewSQLRunner(pool, zerolog.Nop()).WithObserver(obs)

			err := WithTx(context.Background(), r, func(q SQLExecutor) error {
				if _, err := q.Exec(context.Background(), testMarked); err != nil {
					return err
				}
				return tc.fnErr
			})
			if !errors.Is(err, tc.fnErr) {
				t.Fatalf("WithTx() error = %v, want %v", err, tc.fnErr)
			}
			if pool.tx.commits != tc.wantCommit || pool.tx.rollback != tc.wantRoll {
				t.Fatalf("commits = %d rollbacks = %d", pool.tx.commits, pool.tx.rollback)
			}
			if len(pool.seen) != 1 || pool.seen[0] != "select 1;" {
				t.Fatalf("tx saw %v, want the marker stripped", pool.seen)
			}
			if len(obs.calls) != 1 {
				t.Fatalf("observer calls = %d, want statements inside the tx observed", len(obs.calls))
			}
		})
	}
}

func TestWithTxUnsupported(t *testing.T) {
	called := false
	fn := func(SQLExecutor) error { called = true; return nil }
	if err := WithTx(context.Background(), &stubDB{}, fn); !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("WithTx(plain executor) error = %v", err)
	}
	if err := NewSQLRunner(&stubDB{}, zerolog.Nop()).InTx(context.Background(), fn); !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("InTx(plain executor) error = %v", err)
	}
	if called {
		t.Fatalf("fn must not run without a transaction")
	}
}
