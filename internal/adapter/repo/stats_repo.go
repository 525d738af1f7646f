package repo

import (
	"context"
	"fmt"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// StatsRepositoryPG implements StatsRepository using PostgreSQL.
type StatsRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewStatsRepository(sql infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{sql: sql}
}

func (r *StatsRepositoryPG) Summary(ctx context.Context) (domain.CommunityStats, error) {
	var s domain.CommunityStats
	row := r.sql.QueryRow(ctx, sqlinline.QStatsSummary)
	if err := row.Scan(
		&s.Donors,
		&s.AvailableDonors,
		&s.Donations,
		&s.DonatedML,
		&s.OpenRequests,
		&s.RequestsLast24h,
		&s.DonationsLast24h,
	); err != nil {
		return domain.CommunityStats{}, fmt.Errorf("stats summary: %w", err)
	}
	return s, nil
}

var _ domain.StatsRepository = (*StatsRepositoryPG)(nil)
