package auth

import (
	"testing"
	"time"

	"jobh_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)

	token, err := m.GenerateToken("user-1", models.UserRoleEmployer)
	require.NoError(t, err)

	p, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, models.UserRoleEmployer, p.Role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Minute).GenerateToken("user-1", models.UserRoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("s", time.Minute)
	m.ttl = -time.Minute

	token, err := m.GenerateToken("user-1", models.UserRoleCandidate)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	m := NewTokenManager("s", time.Minute)
	token, err := m.GenerateToken("user-1", models.UserRole("GUEST"))
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
