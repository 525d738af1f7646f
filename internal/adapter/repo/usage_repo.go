package repo

import (
	"context"
	"fmt"
	"time"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// UsageRepositoryPG reads and writes daily donation counts.
type UsageRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUsageRepository constructs the repository.
func NewUsageRepository(sql infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{sql: sql}
}

// ListUsage returns records ordered by day, then insertion order, so later
// records for the same day come last. Nil bounds leave the range open.
func (r *UsageRepositoryPG) ListUsage(ctx context.Context, from, to *time.Time) ([]domain.UsageRecord, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUsage, dayArg(from), dayArg(to))
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var items []domain.UsageRecord
	for rows.Next() {
		var rec domain.UsageRecord
		if err := rows.Scan(&rec.Date, &rec.DonationCount); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return items, nil
}

// AddDonations adds count to the latest record of day.
func (r *UsageRepositoryPG) AddDonations(ctx context.Context, day time.Time, count int) error {
	return infra.WithTx(ctx, r.sql, func(q infra.SQLExecutor) error {
		return addDonations(ctx, q, day, count)
	})
}

// addDonations must run inside a transaction; the day lock is released on
// commit or rollback.
func addDonations(ctx context.Context, q infra.SQLExecutor, day time.Time, count int) error {
	d := dayString(day)
	if _, err := q.Exec(ctx, sqlinline.QLockUsageDay, d); err != nil {
		return fmt.Errorf("lock usage day: %w", err)
	}
	if _, err := q.Exec(ctx, sqlinline.QAddUsage, d, count); err != nil {
		return fmt.Errorf("add usage: %w", err)
	}
	return nil
}

// SetDonations appends a record for day that overrides earlier ones.
func (r *UsageRepositoryPG) SetDonations(ctx context.Context, day time.Time, count int) error {
	if count < 0 {
		return fmt.Errorf("donation count must not be negative")
	}
	_, err := r.sql.Exec(ctx, sqlinline.QAppendUsage, dayString(day), count)
	return err
}

// dayString keeps the calendar day of t in its own location; passing a
// time.Time would let the driver shift it to UTC first.
func dayString(t time.Time) string {
	return t.Format(time.DateOnly)
}

func dayArg(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dayString(*t)
	return &s
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
