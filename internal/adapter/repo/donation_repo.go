package repo

import (
	"context"
	"fmt"
	"time"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// DonationRepositoryPG implements DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// Record inserts the donation, counts it towards day and adds it to the
// donor's totals in one transaction.
func (r *DonationRepositoryPG) Record(ctx context.Context, donation *domain.Donation, day time.Time) (*domain.Donation, error) {
	var out *domain.Donation
	err := infra.WithTx(ctx, r.sql, func(q infra.SQLExecutor) error {
		created, err := insertDonation(ctx, q, donation)
		if err != nil {
			return err
		}
		if err := addDonations(ctx, q, day, 1); err != nil {
			return fmt.Errorf("count donation: %w", err)
		}
		if err := NewUserRepository(q).RecordDonation(ctx, created.UserID, created.AmountML); err != nil {
			return fmt.Errorf("record donation on profile: %w", err)
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func insertDonation(ctx context.Context, q infra.SQLExecutor, donation *domain.Donation) (*domain.Donation, error) {
	row := q.QueryRow(ctx, sqlinline.QInsertDonation,
		donation.UserID, string(donation.BloodType), donation.Location, donation.AmountML)
	var (
		out       domain.Donation
		bloodType string
	)
	if err := row.Scan(&out.ID, &out.UserID, &bloodType, &out.Location, &out.AmountML, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	out.BloodType = domain.BloodType(bloodType)
	return &out, nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
