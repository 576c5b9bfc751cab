package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := svc.VerifyAccess(pair.Access)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)

	userID, err = svc.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestTokenService_TypeConfusion(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair(7)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.Refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyRefresh(pair.Access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute, -time.Minute)

	pair, err := svc.IssuePair(7)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.RefreshAccess(pair.Refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Tampered(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair(7)
	require.NoError(t, err)

	tampered := pair.Access[:len(pair.Access)-2] + "xx"
	_, err = svc.VerifyAccess(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("other-secret", 30*time.Minute, 7*24*time.Hour)

	pair, err := other.IssuePair(7)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RefreshAccess(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair(99)
	require.NoError(t, err)

	access, err := svc.RefreshAccess(pair.Refresh)
	require.NoError(t, err)

	userID, err := svc.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, uint64(99), userID)
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.VerifyAccess("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyRefresh("")
	require.ErrorIs(t, err, ErrInvalidToken)
}
