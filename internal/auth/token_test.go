package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-123",
		Username: "ana",
		Email:    "ana@x.com",
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), nil)
	u := testUser()

	tok, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Verify(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, u.Username, claims.Username)
	require.Equal(t, u.Email, claims.Email)
	require.NotEmpty(t, claims.ID)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), nil)
	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// Flip the last character of the signature segment.
	tampered := tok[:len(tok)-1]
	if tok[len(tok)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = issuer.Verify(context.Background(), tampered)
	require.Error(t, err)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer([]byte("right"), nil).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("wrong"), nil).Verify(context.Background(), tok)
	require.Error(t, err)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("k"), nil)
	_, err := issuer.Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), NewMemoryRevocationSet())
	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)

	ctx := context.Background()
	claims, err := issuer.Verify(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(ctx, claims))

	_, err = issuer.Verify(ctx, tok)
	require.Error(t, err)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestMemoryRevocationSet_Expiry(t *testing.T) {
	t.Parallel()

	set := NewMemoryRevocationSet()
	ctx := context.Background()
	require.NoError(t, set.Revoke(ctx, "jti-1", 10*time.Millisecond))

	revoked, err := set.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	time.Sleep(20 * time.Millisecond)
	revoked, err = set.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}
