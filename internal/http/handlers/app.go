package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"rakta/internal/auth"
	"rakta/internal/dashboard"
	"rakta/internal/domain"
	"rakta/internal/middleware"
)

const maxJSONBody = 1 << 20

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	Issue(userID string) (string, *auth.Claims, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// PictureStore keeps uploaded profile pictures and returns their URL.
type PictureStore interface {
	SaveProfilePicture(ctx context.Context, userID string, data []byte) (string, error)
}

// DashboardService serves the donation activity snapshot.
type DashboardService interface {
	Current(ctx context.Context) dashboard.Snapshot
	Refresh(ctx context.Context) dashboard.Snapshot
	Snapshot() (dashboard.Snapshot, bool)
}

type App struct {
	Users      domain.UserRepository
	Donations  domain.DonationRepository
	Requests   domain.RequestRepository
	BloodBanks domain.BloodBankRepository
	Stats      domain.StatsRepository
	Tokens     domain.TokenStore
	Dashboard  DashboardService
	Pictures   PictureStore
	Issuer     TokenIssuer
	Passwords  PasswordHasher
	Logger     zerolog.Logger
	DB         Pinger

	ResetTokenTTL time.Duration
	// ExposeResetTokens returns reset tokens in the forgot-password response.
	// Only enabled in development, where no mailer is configured.
	ExposeResetTokens bool
	MaxUploadBytes    int64
	Now               func() time.Time
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// fail maps domain errors onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
			Code:    "validation",
			Message: "some fields are invalid",
			Fields:  verr.Fields,
		}})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, http.StatusConflict, "email_taken", "an account with this email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, domain.ErrTokenExpired):
		a.error(w, http.StatusBadRequest, "token_expired", "token is invalid or expired")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// requireUser writes 401 and returns "" when no user is attached.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	}
	return userID
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
