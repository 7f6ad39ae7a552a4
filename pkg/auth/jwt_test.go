package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmachado/autorevenda/config"
	"github.com/gfmachado/autorevenda/pkg/auth"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	token, err := auth.Issue(42, "maria@example.com", auth.RoleClient)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, auth.RoleClient, claims.Role)
}

func TestVerifyGarbage(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := auth.Verify(tok)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", tok)
	}
}

func TestVerifyExpiredLooksLikeGarbage(t *testing.T) {
	// Expired tokens and malformed tokens must produce the same error so
	// callers can't distinguish them.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: 1,
		Email:  "x@example.com",
		Role:   auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(config.JWTSecret()))
	require.NoError(t, err)

	_, err = auth.Verify(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyWrongSignature(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte("outro-segredo"))
	require.NoError(t, err)

	_, err = auth.Verify(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLifetimeFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"3600", time.Hour},
		{"12h", 12 * time.Hour},
		{"30m", 30 * time.Minute},
		{"nonsense", 24 * time.Hour},
		{"-5", 24 * time.Hour},
	}
	for _, tc := range cases {
		t.Setenv("JWT_EXPIRES_IN", tc.raw)
		assert.Equal(t, tc.want, auth.Lifetime(), "JWT_EXPIRES_IN=%s", tc.raw)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("segredo1")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo1", hash)

	assert.True(t, auth.CheckPassword(hash, "segredo1"))
	assert.False(t, auth.CheckPassword(hash, "segredo2"))
}
