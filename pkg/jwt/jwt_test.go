package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(Identity{UserID: 42, Email: "a@b.com", Username: "alice", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refresh.UserID)
	assert.Empty(t, refresh.Role)
}

func TestManager_ParseExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)

	pair, err := m.GenerateToken(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestManager_ParseWrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(Identity{UserID: 5, Role: "user"})
	require.NoError(t, err)

	token, err := m.RefreshAccessToken(pair.RefreshToken, Identity{UserID: 5, Email: "new@b.com", Role: "user"})
	require.NoError(t, err)
	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", claims.Email)

	_, err = m.RefreshAccessToken(pair.RefreshToken, Identity{UserID: 6})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
