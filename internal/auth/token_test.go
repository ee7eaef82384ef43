package auth

import (
	"testing"
	"time"

	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{JWTSecret: "secret", Issuer: "afs", TokenTTL: 1})
}

func TestIssueAndParse(t *testing.T) {
	m := testManager()

	token, err := m.Issue(42, model.RoleDonor)
	require.NoError(t, err)

	identity, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserId)
	assert.Equal(t, model.RoleDonor, identity.Role)
}

func TestParseRejects(t *testing.T) {
	m := testManager()
	token, err := m.Issue(42, model.RoleAthlete)
	require.NoError(t, err)

	other := NewTokenManager(config.AuthConfig{JWTSecret: "other", Issuer: "afs"})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenManager(config.AuthConfig{JWTSecret: "secret", Issuer: "someone-else"})
	_, err = wrongIssuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "donor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "afs",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42", Issuer: "afs"},
	})
	signed, err = badRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWithoutSecret(t *testing.T) {
	m := NewTokenManager(config.AuthConfig{Issuer: "afs"})

	_, err := m.Issue(1, model.RoleDonor)
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = m.Parse("anything")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = testManager().Issue(1, model.Role("admin"))
	assert.Error(t, err)
}
