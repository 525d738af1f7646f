package repo

import (
	"context"
	"strings"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// BloodBankRepositoryPG lists the blood-bank directory.
type BloodBankRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewBloodBankRepository constructs the repository.
func NewBloodBankRepository(sql infra.SQLExecutor) *BloodBankRepositoryPG {
	return &BloodBankRepositoryPG{sql: sql}
}

// List returns banks filtered by country code and city; empty filters match all.
func (r *BloodBankRepositoryPG) List(ctx context.Context, countryCode, city string) ([]domain.BloodBank, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListBloodBanks, strings.TrimSpace(countryCode), strings.TrimSpace(city))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.BloodBank
	for rows.Next() {
		var b domain.BloodBank
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.City, &b.CountryCode, &b.Phone, &b.OpenHours); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ domain.BloodBankRepository = (*BloodBankRepositoryPG)(nil)
