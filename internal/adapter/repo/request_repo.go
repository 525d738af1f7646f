package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// RequestRepositoryPG persists blood requests.
type RequestRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewRequestRepository creates a new request repo.
func NewRequestRepository(sql infra.SQLExecutor) *RequestRepositoryPG {
	return &RequestRepositoryPG{sql: sql}
}

// Create inserts an open request.
func (r *RequestRepositoryPG) Create(ctx context.Context, req *domain.BloodRequest) (*domain.BloodRequest, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertBloodRequest,
		req.UserID, string(req.BloodType), req.Units, req.Hospital, req.Location, string(req.Urgency), req.Note)
	out, err := scanRequest(row)
	if err != nil {
		return nil, fmt.Errorf("insert blood request: %w", err)
	}
	return out, nil
}

// ListOpen returns the most recent unresolved requests.
func (r *RequestRepositoryPG) ListOpen(ctx context.Context, limit int) ([]domain.BloodRequest, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListOpenBloodRequests, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.BloodRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ClaimNextOpen moves the oldest open request to sending and returns it.
// It returns domain.ErrNotFound when nothing is waiting.
func (r *RequestRepositoryPG) ClaimNextOpen(ctx context.Context) (*domain.BloodRequest, error) {
	req, err := scanRequest(r.sql.QueryRow(ctx, sqlinline.QClaimBloodRequest))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// UpdateStatus records the outcome of a notification attempt.
func (r *RequestRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateBloodRequestStatus, id, string(status), errMsg)
	return err
}

func scanRequest(row pgx.Row) (*domain.BloodRequest, error) {
	var (
		req                       domain.BloodRequest
		bloodType, urgency, state string
	)
	if err := row.Scan(
		&req.ID,
		&req.UserID,
		&bloodType,
		&req.Units,
		&req.Hospital,
		&req.Location,
		&urgency,
		&req.Note,
		&state,
		&req.ErrorMessage,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	req.BloodType = domain.BloodType(bloodType)
	req.Urgency = domain.Urgency(urgency)
	req.Status = domain.RequestStatus(state)
	return &req, nil
}

var _ domain.RequestRepository = (*RequestRepositoryPG)(nil)
