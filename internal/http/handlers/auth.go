package handlers

import (
	"errors"
	"net/http"
	"strings"

	"rakta/internal/auth"
	"rakta/internal/domain"
	"rakta/internal/infra/credentials"
	"rakta/internal/middleware"
)

type signUpRequest struct {
	FullName        string `json:"full_name"`
	ContactNo       string `json:"contact_no"`
	Address         string `json:"address"`
	BloodGroup      string `json:"blood_group"`
	RH              string `json:"rh"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      userDTO `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (a *App) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !a.decode(w, r, &req) {
		return
	}
	form := domain.SignUp{
		FullName:        strings.TrimSpace(req.FullName),
		ContactNo:       strings.TrimSpace(req.ContactNo),
		Address:         strings.TrimSpace(req.Address),
		BloodGroup:      strings.TrimSpace(req.BloodGroup),
		RH:              strings.TrimSpace(req.RH),
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := form.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	hash, err := a.Passwords.Hash(form.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	user := &domain.User{
		Email:        domain.NormalizeEmail(form.Email),
		PasswordHash: hash,
		FullName:     form.FullName,
		ContactNo:    form.ContactNo,
		Address:      form.Address,
		BloodGroup:   form.BloodGroup,
		RH:           form.RH,
	}
	if bt, ok := domain.CombineBloodType(form.BloodGroup, form.RH); ok {
		user.BloodType = &bt
	}
	created, err := a.Users.Create(r.Context(), user)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", created.ID).Msg("user signed up")
	a.startSession(w, r, http.StatusCreated, created)
}

func (a *App) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		a.fail(w, r, domain.ErrInvalidCredentials)
		return
	}
	user, err := a.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrInvalidCredentials
		}
		a.fail(w, r, err)
		return
	}
	if err := a.Passwords.Compare(user.PasswordHash, req.Password); err != nil {
		a.fail(w, r, err)
		return
	}
	a.startSession(w, r, http.StatusOK, user)
}

func (a *App) startSession(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	token, claims, err := a.Issuer.Issue(user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.UTC().Format(timeLayout),
		User:      a.toUserDTO(user),
	})
}

// SignOut revokes the presented access token until it would have expired.
func (a *App) SignOut(w http.ResponseWriter, r *http.Request) {
	jti, expiresAt, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing token context")
		return
	}
	if err := a.Tokens.RevokeAccessToken(r.Context(), jti, expiresAt); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PasswordForgot always answers 202 so that callers cannot probe for accounts.
func (a *App) PasswordForgot(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp := map[string]any{"status": "accepted"}
	user, err := a.Users.GetByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.json(w, http.StatusAccepted, resp)
		return
	case err != nil:
		a.fail(w, r, err)
		return
	}
	token := auth.NewResetToken()
	expiresAt := a.now().Add(a.ResetTokenTTL)
	if err := a.Tokens.SaveResetToken(r.Context(), user.ID, credentials.HashToken(token), expiresAt); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", user.ID).Time("expires_at", expiresAt).Msg("password reset issued")
	if a.ExposeResetTokens {
		resp["reset_token"] = token
	}
	a.json(w, http.StatusAccepted, resp)
}

func (a *App) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !a.decode(w, r, &req) {
		return
	}
	v := &domain.ValidationError{}
	if strings.TrimSpace(req.Token) == "" {
		v.Add("token", "token is required")
	}
	domain.ValidatePassword(v, req.Password, req.ConfirmPassword)
	if err := v.Err(); err != nil {
		a.fail(w, r, err)
		return
	}
	userID, err := a.Tokens.ConsumeResetToken(r.Context(), credentials.HashToken(req.Token), a.now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	hash, err := a.Passwords.Hash(req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Users.SetPasswordHash(r.Context(), userID, hash); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", userID).Msg("password reset")
	w.WriteHeader(http.StatusNoContent)
}
