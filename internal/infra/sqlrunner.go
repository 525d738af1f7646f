package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract required by repositories for executing SQL queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// QueryObserver receives the timing of every marked query.
type QueryObserver interface {
	SQLQuery(marker string, d time.Duration, ok bool)
}

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// SQLRunner executes marked queries and logs each call by marker. The marker
// line is stripped before the query reaches the database.
type SQLRunner struct {
	db       SQLExecutor
	logger   zerolog.Logger
	observer QueryObserver
	slow     time.Duration
}

// NewSQLRunner wraps db, usually a *pgxpool.Pool.
func NewSQLRunner(db SQLExecutor, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{db: db, logger: logger}
}

// WithObserver reports query timings to o.
func (r *SQLRunner) WithObserver(o QueryObserver) *SQLRunner {
	r.observer = o
	return r
}

// WithSlowThreshold logs queries at warn level once they take at least d.
func (r *SQLRunner) WithSlowThreshold(d time.Duration) *SQLRunner {
	r.slow = d
	return r
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	started := time.Now()
	tag, err := r.db.Exec(ctx, trimmed, args...)
	r.done(marker, "exec", started, err)
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return &timedRow{
		row:     r.db.QueryRow(ctx, trimmed, args...),
		runner:  r,
		marker:  marker,
		started: time.Now(),
	}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	rows, err := r.db.Query(ctx, trimmed, args...)
	if err != nil {
		r.done(marker, "query", started, err)
		return nil, err
	}
	return &timedRows{Rows: rows, runner: r, marker: marker, started: started}, nil
}

func (r *SQLRunner) done(marker, op string, started time.Time, err error) {
	d := time.Since(started)
	ok := err == nil || errors.Is(err, pgx.ErrNoRows)
	if r.observer != nil {
		r.observer.SQLQuery(marker, d, ok)
	}
	var ev *zerolog.Event
	switch {
	case !ok:
		ev = r.logger.Error().Err(err)
	case r.slow > 0 && d >= r.slow:
		ev = r.logger.Warn().Bool("slow", true)
	default:
		ev = r.logger.Debug()
	}
	ev.Str("sql", marker).Str("op", op).Dur("duration", d).Msg("sql")
}

// timedRow reports when the single row is scanned.
type timedRow struct {
	row     pgx.Row
	runner  *SQLRunner
	marker  string
	started time.Time
}

func (t *timedRow) Scan(dest ...any) error {
	err := t.row.Scan(dest...)
	t.runner.done(t.marker, "query_row", t.started, err)
	return err
}

// timedRows reports once, when the rows are closed.
type timedRows struct {
	pgx.Rows
	runner  *SQLRunner
	marker  string
	started time.Time
	closed  bool
}

func (t *timedRows) Close() {
	t.Rows.Close()
	if t.closed {
		return
	}
	t.closed = true
	t.runner.done(t.marker, "query", t.started, t.Rows.Err())
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(dest ...any) error {
	return e.err
}

func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", "", errors.New("empty query")
	}
	markerLine, rest, _ := strings.Cut(trimmed, "\n")
	markerLine = strings.TrimSpace(markerLine)
	if !markerRegexp.MatchString(markerLine) {
		return "", "", errors.New("sql marker missing or invalid")
	}
	return strings.TrimPrefix(markerLine, "--sql "), strings.TrimSpace(rest), nil
}

var _ SQLExecutor = (*SQLRunner)(nil)

// IsNoRows reports whether err signals an empty single-row result.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
