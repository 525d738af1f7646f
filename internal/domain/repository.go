package domain

import (
	"context"
	"time"
)

// UserRepository persists donor profiles.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePersonal(ctx context.Context, id string, info PersonalInfo) (*User, error)
	UpdateMedical(ctx context.Context, id string, info MedicalInfo) (*User, error)
	SetAvailability(ctx context.Context, id string, available bool) (*User, error)
	SetProfilePicture(ctx context.Context, id, url string) (*User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	RecordDonation(ctx context.Context, id string, amountML int) error
	RecordRequest(ctx context.Context, id string) error
	CountAvailableDonors(ctx context.Context, bloodType BloodType) (int, error)
}

// UsageRecordSource is the queryable collection of dated donation counts.
// A nil bound leaves that side of the range open.
type UsageRecordSource interface {
	ListUsage(ctx context.Context, from, to *time.Time) ([]UsageRecord, error)
}

// UsageRepository extends the source with writes used by forms and admin tools.
type UsageRepository interface {
	UsageRecordSource
	AddDonations(ctx context.Context, day time.Time, count int) error
	SetDonations(ctx context.Context, day time.Time, count int) error
}

// DonationRepository persists donate-blood submissions.
type DonationRepository interface {
	// Record stores the donation, counts it towards day's activity and adds
	// it to the donor's totals. Either every write lands or none does.
	Record(ctx context.Context, donation *Donation, day time.Time) (*Donation, error)
}

// RequestRepository persists blood requests and their notification status.
type RequestRepository interface {
	Create(ctx context.Context, req *BloodRequest) (*BloodRequest, error)
	ListOpen(ctx context.Context, limit int) ([]BloodRequest, error)
	ClaimNextOpen(ctx context.Context) (*BloodRequest, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus, errMsg string) error
}

// StatsRepository aggregates community-wide counters.
type StatsRepository interface {
	Summary(ctx context.Context) (CommunityStats, error)
}

// BloodBankRepository lists directory entries.
type BloodBankRepository interface {
	List(ctx context.Context, countryCode, city string) ([]BloodBank, error)
}

// TokenStore keeps single-use password reset tokens and revoked access tokens.
type TokenStore interface {
	SaveResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (string, error)
	RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}
