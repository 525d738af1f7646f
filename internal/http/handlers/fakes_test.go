package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"rakta/internal/auth"
	"rakta/internal/dashboard"
	"rakta/internal/domain"
	"rakta/internal/middleware"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type memUsers struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	donations map[string]int
	requests  map[string]int
	seq       int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}, donations: map[string]int{}, requests: map[string]int{}}
}

func (m *memUsers) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == domain.NormalizeEmail(u.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	m.seq++
	cp := *u
	cp.ID = fmt.Sprintf("user-%d", m.seq)
	cp.Email = domain.NormalizeEmail(u.Email)
	cp.CreatedAt = testNow
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) get(id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.byID {
		if u.Email == domain.NormalizeEmail(email) {
			return m.get(id)
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) update(id string, fn func(u *domain.User)) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	fn(u)
	return m.get(id)
}

func (m *memUsers) UpdatePersonal(ctx context.Context, id string, info domain.PersonalInfo) (*domain.User, error) {
	return m.update(id, func(u *domain.User) {
		u.FullName = info.FullName
		u.DateOfBirth = info.DateOfBirth
		u.CountryRegion = info.CountryRegion
		u.ContactNo = info.ContactNo
		u.Address = info.Address
	})
}

func (m *memUsers) UpdateMedical(ctx context.Context, id string, info domain.MedicalInfo) (*domain.User, error) {
	return m.update(id, func(u *domain.User) {
		bt := info.BloodType
		h, w, d := info.HeightCM, info.WeightKG, info.DonatedRecently
		u.BloodType = &bt
		u.HeightCM = &h
		u.WeightKG = &w
		u.ChronicDiseases = info.ChronicDiseases
		u.HasChronicDisease = info.HasChronicDisease()
		u.DonatedRecently = &d
		u.OnboardingCompleted = true
	})
}

func (m *memUsers) SetAvailability(ctx context.Context, id string, available bool) (*domain.User, error) {
	return m.update(id, func(u *domain.User) { u.AvailableToDonate = available })
}

func (m *memUsers) SetProfilePicture(ctx context.Context, id, url string) (*domain.User, error) {
	return m.update(id, func(u *domain.User) { u.ProfilePictureURL = url })
}

func (m *memUsers) SetPasswordHash(ctx context.Context, id, hash string) error {
	_, err := m.update(id, func(u *domain.User) { u.PasswordHash = hash })
	return err
}

func (m *memUsers) RecordDonation(ctx context.Context, id string, amountML int) error {
	_, err := m.update(id, func(u *domain.User) {
		u.TotalBloodDonated += amountML
		u.DonationCount++
	})
	return err
}

func (m *memUsers) RecordRequest(ctx context.Context, id string) error {
	_, err := m.update(id, func(u *domain.User) { u.RequestCount++ })
	return err
}

func (m *memUsers) CountAvailableDonors(ctx context.Context, bt domain.BloodType) (int, error) {
	return 0, nil
}

type memUsage struct {
	mu      sync.Mutex
	records []domain.UsageRecord
	err     error
}

func (m *memUsage) ListUsage(ctx context.Context, from, to *time.Time) ([]domain.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.UsageRecord(nil), m.records...), nil
}

func (m *memUsage) AddDonations(ctx context.Context, day time.Time, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.records {
		if rec.Valid() && dashboard.DayLabel(*rec.Date) == dashboard.DayLabel(day) {
			n := *rec.DonationCount + count
			m.records[i].DonationCount = &n
			return nil
		}
	}
	m.records = append(m.records, domain.NewUsageRecord(day, count))
	return nil
}

func (m *memUsage) SetDonations(ctx context.Context, day time.Time, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, domain.NewUsageRecord(day, count))
	return nil
}

// memDonations writes the donation, the day count and the donor totals.
// With err set it fails before writing anything.
type memDonations struct {
	usage   *memUsage
	users   *memUsers
	created []domain.Donation
	err     error
}

func (m *memDonations) Record(ctx context.Context, d *domain.Donation, day time.Time) (*domain.Donation, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := m.users.GetByID(ctx, d.UserID); err != nil {
		return nil, err
	}
	cp := *d
	cp.ID = fmt.Sprintf("donation-%d", len(m.created)+1)
	cp.CreatedAt = testNow
	m.created = append(m.created, cp)
	if err := m.usage.AddDonations(ctx, day, 1); err != nil {
		return nil, err
	}
	if err := m.users.RecordDonation(ctx, d.UserID, d.AmountML); err != nil {
		return nil, err
	}
	return &cp, nil
}

type memRequests struct {
	items []domain.BloodRequest
	limit int
}

func (m *memRequests) Create(ctx context.Context, r *domain.BloodRequest) (*domain.BloodRequest, error) {
	cp := *r
	cp.ID = fmt.Sprintf("req-%d", len(m.items)+1)
	cp.CreatedAt = testNow
	m.items = append(m.items, cp)
	return &cp, nil
}

func (m *memRequests) ListOpen(ctx context.Context, limit int) ([]domain.BloodRequest, error) {
	m.limit = limit
	return m.items, nil
}

func (m *memRequests) ClaimNextOpen(ctx context.Context) (*domain.BloodRequest, error) {
	return nil, domain.ErrNotFound
}

func (m *memRequests) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, errMsg string) error {
	return nil
}

type memBanks struct {
	country, city string
	items         []domain.BloodBank
}

func (m *memBanks) List(ctx context.Context, country, city string) ([]domain.BloodBank, error) {
	m.country, m.city = country, city
	return m.items, nil
}

type memStats struct {
	stats domain.CommunityStats
	err   error
}

func (m *memStats) Summary(context.Context) (domain.CommunityStats, error) {
	return m.stats, m.err
}

type memTokens struct {
	mu      sync.Mutex
	resets  map[string]string
	expires map[string]time.Time
	revoked map[string]time.Time
}

func newMemTokens() *memTokens {
	return &memTokens{resets: map[string]string{}, expires: map[string]time.Time{}, revoked: map[string]time.Time{}}
}

func (m *memTokens) SaveResetToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[hash] = userID
	m.expires[hash] = expiresAt
	return nil
}

func (m *memTokens) ConsumeResetToken(ctx context.Context, hash string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.resets[hash]
	if !ok || !now.Before(m.expires[hash]) {
		return "", domain.ErrTokenExpired
	}
	delete(m.resets, hash)
	return userID, nil
}

func (m *memTokens) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memTokens) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

type memPictures struct {
	data []byte
	err  error
}

func (m *memPictures) SaveProfilePicture(ctx context.Context, userID string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.data = data
	return "http://localhost:8080/static/profile-pictures/" + userID + ".png", nil
}

type testEnv struct {
	app      *App
	users    *memUsers
	usage    *memUsage
	donation *memDonations
	requests *memRequests
	banks    *memBanks
	stats    *memStats
	tokens   *memTokens
	pictures *memPictures
	issuer   *auth.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:    newMemUsers(),
		usage:    &memUsage{},
		donation: &memDonations{},
		requests: &memRequests{},
		banks:    &memBanks{},
		stats:    &memStats{},
		tokens:   newMemTokens(),
		pictures: &memPictures{},
		issuer:   auth.NewTokens("test-secret", time.Hour).WithClock(func() time.Time { return testNow }),
	}
	env.donation.usage, env.donation.users = env.usage, env.users
	now := func() time.Time { return testNow }
	env.app = &App{
		Users:      env.users,
		Donations:  env.donation,
		Requests:   env.requests,
		BloodBanks: env.banks,
		Stats:      env.stats,
		Tokens:     env.tokens,
		Dashboard: dashboard.NewService(env.usage, dashboard.Options{
			PastDays:   dashboard.DefaultPastDays,
			FutureDays: dashboard.DefaultFutureDays,
			Now:        now,
			Logger:     zerolog.Nop(),
		}),
		Pictures:      env.pictures,
		Issuer:        env.issuer,
		Passwords:     auth.Hasher{Cost: bcrypt.MinCost},
		Logger:        zerolog.Nop(),
		ResetTokenTTL: time.Hour,
		Now:           now,
	}
	return env
}

// seedUser registers a donor and returns it with a signed access token.
func (e *testEnv) seedUser(t *testing.T, email, password string) (*domain.User, string) {
	t.Helper()
	hash, err := e.app.Passwords.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	bt := domain.BloodTypeOPos
	u, err := e.users.Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Sita Sharma",
		BloodGroup:   "O",
		RH:           "+ve",
		BloodType:    &bt,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, _, err := e.issuer.Issue(u.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return u, token
}

// authed runs h behind the JWT middleware with the given bearer token.
func (e *testEnv) authed(h http.HandlerFunc, token string, req *http.Request) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	middleware.AuthJWT(e.issuer, e.tokens)(h).ServeHTTP(rr, req)
	return rr
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(strings.NewReader(rr.Body.String())).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

type errorPayload struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}
