// Package migrations applies the embedded Postgres schema with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

const migrationsTableName = "schema_migrations"

//go:embed sql/*.up.sql
var files embed.FS

// Migration is one versioned schema step.
type Migration struct {
	Version uint
	Name    string
	SQL     string
}

// List returns the embedded migrations in version order.
func List() ([]Migration, error) {
	return load(files, "sql")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	defer src.Close()

	var out []Migration
	version, err := src.First()
	for err == nil {
		m, readErr := readUp(src, version)
		if readErr != nil {
			return nil, readErr
		}
		out = append(out, m)
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walk migrations: %w", err)
	}
	return out, nil
}

func readUp(src source.Driver, version uint) (Migration, error) {
	r, ident, err := src.ReadUp(version)
	if err != nil {
		return Migration{}, fmt.Errorf("read migration %d: %w", version, err)
	}
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return Migration{}, fmt.Errorf("read migration %d: %w", version, err)
	}
	return Migration{Version: version, Name: ident, SQL: string(body)}, nil
}

// Up applies every pending migration and returns the resulting schema
// version. golang-migrate's postgres driver holds an advisory lock for the
// run, and each file executes as one multi-statement query, so a failing
// file leaves nothing half applied. Cancelling ctx stops after the current
// file.
func Up(ctx context.Context, db *sql.DB, logger zerolog.Logger) (uint, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return 0, fmt.Errorf("read migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTableName})
	if err != nil {
		return 0, fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	m.Log = migrateLogger{logger: logger}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty; fix it by hand and force the version", version)
	}
	return version, nil
}

// migrateLogger forwards golang-migrate's progress lines to zerolog.
type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}
