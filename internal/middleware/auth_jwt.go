package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"rakta/internal/auth"
	"rakta/internal/domain"
)

type userKey string

const (
	userIDKey userKey = "user_id"
	claimsKey userKey = "claims"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}

func AuthJWT(verifier TokenVerifier, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid authorization")
				return
			}
			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "token_expired", "token expired")
					return
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			if revoked != nil {
				isRevoked, err := revoked.IsAccessTokenRevoked(r.Context(), claims.ID)
				if err != nil {
					log.Ctx(r.Context()).Error().Err(err).Str("jti", claims.ID).Msg("revocation lookup failed")
					writeError(w, http.StatusInternalServerError, "internal", "internal error")
					return
				}
				if isRevoked {
					writeError(w, http.StatusUnauthorized, "token_revoked", "token revoked")
					return
				}
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// TokenFromContext returns the id and expiry of the verified access token.
func TokenFromContext(ctx context.Context) (jti string, expiresAt time.Time, ok bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return "", time.Time{}, false
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.ID, expiresAt, true
}

// ContextWithClaims stores verified claims; handlers read them back through
// UserIDFromContext and TokenFromContext.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if claims == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, userIDKey, claims.Subject)
	return context.WithValue(ctx, claimsKey, claims)
}
