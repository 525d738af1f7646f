package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a new account. A taken email yields domain.ErrEmailTaken.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var bloodType string
	if user.BloodType != nil {
		bloodType = string(*user.BloodType)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.FullName,
		user.ContactNo,
		user.Address,
		user.BloodGroup,
		user.RH,
		bloodType,
	)
	created, err := scanUser(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, domain.NormalizeEmail(email)))
}

// UpdatePersonal saves the first onboarding step.
func (r *UserRepositoryPG) UpdatePersonal(ctx context.Context, id string, info domain.PersonalInfo) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserPersonal,
		id, info.FullName, info.DateOfBirth, info.CountryRegion, info.ContactNo, info.Address))
}

// UpdateMedical saves the medical step and marks onboarding complete.
func (r *UserRepositoryPG) UpdateMedical(ctx context.Context, id string, info domain.MedicalInfo) (*domain.User, error) {
	diseases := info.ChronicDiseases
	if diseases == nil {
		diseases = []string{}
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserMedical,
		id, string(info.BloodType), info.HeightCM, info.WeightKG, diseases, info.HasChronicDisease(), info.DonatedRecently))
}

// SetAvailability toggles whether the donor can be contacted for requests.
func (r *UserRepositoryPG) SetAvailability(ctx context.Context, id string, available bool) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserAvailability, id, available))
}

// SetProfilePicture stores the public URL of the uploaded picture.
func (r *UserRepositoryPG) SetProfilePicture(ctx context.Context, id, url string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserPicture, id, url))
}

// SetPasswordHash replaces the stored password hash.
func (r *UserRepositoryPG) SetPasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserPassword, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordDonation adds a donation of amountML to the donor's totals.
func (r *UserRepositoryPG) RecordDonation(ctx context.Context, id string, amountML int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QRecordUserDonation, id, amountML)
	return err
}

// RecordRequest bumps the donor's request counter.
func (r *UserRepositoryPG) RecordRequest(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QRecordUserRequest, id)
	return err
}

// CountAvailableDonors counts donors of bloodType who opted in to requests.
func (r *UserRepositoryPG) CountAvailableDonors(ctx context.Context, bloodType domain.BloodType) (int, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountAvailableDonors, string(bloodType)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count donors: %w", err)
	}
	return int(n), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		bloodType *string
		dob       *time.Time
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.ContactNo,
		&u.Address,
		&u.BloodGroup,
		&u.RH,
		&bloodType,
		&dob,
		&u.CountryRegion,
		&u.HeightCM,
		&u.WeightKG,
		&u.ChronicDiseases,
		&u.HasChronicDisease,
		&u.DonatedRecently,
		&u.OnboardingCompleted,
		&u.TotalBloodDonated,
		&u.ProfilePictureURL,
		&u.AvailableToDonate,
		&u.DonationCount,
		&u.RequestCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if bloodType != nil {
		bt := domain.BloodType(*bloodType)
		u.BloodType = &bt
	}
	u.DateOfBirth = dob
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
