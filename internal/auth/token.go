package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
)

// TokenTTL is the validity window of an issued session token.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the signed identity assertion embedded in every session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens. Tokens are stateless; the
// optional revocation set lets logout invalidate a token before it expires.
type TokenIssuer struct {
	secret  []byte
	revoked RevocationSet
}

func NewTokenIssuer(secret []byte, revoked RevocationSet) *TokenIssuer {
	return &TokenIssuer{secret: secret, revoked: revoked}
}

// Issue produces a signed token asserting the user's identity for TokenTTL.
func (i *TokenIssuer) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   u.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a token, rejecting revoked ones.
func (i *TokenIssuer) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Auth("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid or expired token")
	}

	if i.revoked != nil && claims.ID != "" {
		revoked, err := i.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, apperr.Auth("token has been revoked")
		}
	}
	return claims, nil
}

// Revoke invalidates the token behind claims until it would have expired.
// A no-op acknowledgment when no revocation set is wired.
func (i *TokenIssuer) Revoke(ctx context.Context, claims *Claims) error {
	if i.revoked == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return i.revoked.Revoke(ctx, claims.ID, ttl)
}
