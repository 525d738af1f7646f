package credentials

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"rakta/internal/domain"
	"rakta/internal/infra"
	"rakta/internal/sqlinline"
)

// Store keeps password reset tokens and revoked access token ids.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// HashToken returns the storage form of a reset token; raw tokens are never persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

func (s *Store) SaveResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	if tokenHash == "" {
		return errors.New("reset token hash is required")
	}
	_, err := s.sql.Exec(ctx, sqlinline.QInsertResetToken, tokenHash, userID, expiresAt)
	return err
}

// ConsumeResetToken marks the token used and returns its user id. Unknown,
// used and expired tokens all yield domain.ErrTokenExpired.
func (s *Store) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QConsumeResetToken, tokenHash, now)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrTokenExpired
		}
		return "", err
	}
	return userID, nil
}

func (s *Store) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return errors.New("token id is required")
	}
	_, err := s.sql.Exec(ctx, sqlinline.QRevokeAccessToken, jti, expiresAt)
	return err
}

func (s *Store) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectRevokedToken, jti)
	var revoked bool
	if err := row.Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

// PruneExpired removes reset tokens and revoked ids that expired before
// before. A revoked id past its expiry can no longer be presented anyway.
func (s *Store) PruneExpired(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	if err := s.sql.QueryRow(ctx, sqlinline.QPruneExpiredTokens, before).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ domain.TokenStore = (*Store)(nil)
