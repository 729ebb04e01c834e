package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_PairRoundTrip(t *testing.T) {
	svc := NewService("secret", time.Minute, time.Hour)

	pair, err := svc.GeneratePair("user-1", "reader")
	require.NoError(t, err)

	access, err := svc.ValidateToken(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "reader", access.Username)

	refresh, err := svc.ValidateToken(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, refresh.Type)
}

func TestService_WrongType(t *testing.T) {
	svc := NewService("secret", time.Minute, time.Hour)
	pair, err := svc.GeneratePair("user-1", "reader")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = svc.ValidateToken(pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestService_Expired(t *testing.T) {
	svc := NewService("secret", time.Minute, time.Hour)
	pair, err := svc.GeneratePair("user-1", "reader")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = svc.ValidateToken(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(pair.RefreshToken, TypeRefresh)
	assert.NoError(t, err)
}

func TestService_ForeignSecret(t *testing.T) {
	pair, err := NewService("one", time.Minute, time.Hour).GeneratePair("user-1", "reader")
	require.NoError(t, err)

	_, err = NewService("two", time.Minute, time.Hour).ValidateToken(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewService("two", time.Minute, time.Hour).ValidateToken("not.a.token", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
