package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rakta/internal/infra"
)

type call struct {
	query string
	args  []any
	inTx  bool
}

// fakeSQL records every call and serves canned rows. err applies to every
// statement, or only to failOn when that is set.
type fakeSQL struct {
	calls   []call
	row     pgx.Row
	rows    [][]any
	err     error
	failOn  string
	affects int64

	commits   int
	rollbacks int
	inTx      bool
}

func (f *fakeSQL) failing(query string) error {
	if f.err != nil && (f.failOn == "" || f.failOn == query) {
		return f.err
	}
	return nil
}

// InTx runs fn against the fake itself and counts how the transaction ends.
func (f *fakeSQL) InTx(_ context.Context, fn func(infra.SQLExecutor) error) error {
	f.inTx = true
	defer func() { f.inTx = false }()
	if err := fn(f); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{query: query, args: args, inTx: f.inTx})
	if err := f.failing(query); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.affects)), nil
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{query: query, args: args, inTx: f.inTx})
	if err := f.failing(query); err != nil {
		return errRow{err: err}
	}
	return f.row
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{query: query, args: args, inTx: f.inTx})
	if err := f.failing(query); err != nil {
		return nil, err
	}
	return &sliceRows{rows: f.rows}, nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// sliceRows yields each []any as a row, assigning values by destination type.
type sliceRows struct {
	rows [][]any
	idx  int
}

func (s *sliceRows) Close()                                       {}
func (s *sliceRows) Err() error                                   { return nil }
func (s *sliceRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (s *sliceRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *sliceRows) Values() ([]any, error)                       { return nil, errors.New("not supported") }
func (s *sliceRows) RawValues() [][]byte                          { return nil }
func (s *sliceRows) Conn() *pgx.Conn                              { return nil }

func (s *sliceRows) Next() bool {
	if s.idx >= len(s.rows) {
		return false
	}
	s.idx++
	return true
}

func (s *sliceRows) Scan(dest ...any) error {
	return assign(s.rows[s.idx-1], dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		if err := assignOne(v, dest[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assignOne(v any, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return errors.New("destination must be a non-nil pointer")
	}
	elem := dv.Elem()
	if v == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	sv := reflect.ValueOf(v)
	switch {
	case sv.Type().AssignableTo(elem.Type()):
		elem.Set(sv)
	case elem.Kind() == reflect.Pointer && sv.Type().AssignableTo(elem.Type().Elem()):
		p := reflect.New(elem.Type().Elem())
		p.Elem().Set(sv)
		elem.Set(p)
	default:
		return fmt.Errorf("cannot assign %T to %s", v, elem.Type())
	}
	return nil
}

// fakeRow scans a single canned row.
type fakeRow struct{ values []any }

func (r fakeRow) Scan(dest ...any) error { return assign(r.values, dest) }
