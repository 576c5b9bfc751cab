package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or the wrong token type.
var ErrInvalidToken = errors.New("invalid token")

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	Access  string
	Refresh string
}

type tokenClaims struct {
	UserID    uint64 `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed access and refresh tokens.
// Verification is a pure computation: signature plus expiry, no store
// access.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessLifetime returns the configured access token lifetime.
func (s *TokenService) AccessLifetime() time.Duration {
	return s.accessTTL
}

// RefreshLifetime returns the configured refresh token lifetime.
func (s *TokenService) RefreshLifetime() time.Duration {
	return s.refreshTTL
}

// IssuePair issues a refresh token bound to the user and derives an
// access token from it.
func (s *TokenService) IssuePair(userID uint64) (*TokenPair, error) {
	refresh, err := s.sign(userID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	access, err := s.sign(userID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess verifies an access token and returns the bound user ID.
func (s *TokenService) VerifyAccess(token string) (uint64, error) {
	return s.verify(token, tokenTypeAccess)
}

// VerifyRefresh verifies a refresh token and returns the bound user ID.
func (s *TokenService) VerifyRefresh(token string) (uint64, error) {
	return s.verify(token, tokenTypeRefresh)
}

// RefreshAccess mints a new access token from a valid refresh token.
func (s *TokenService) RefreshAccess(refreshToken string) (string, error) {
	userID, err := s.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	return s.sign(userID, tokenTypeAccess, s.accessTTL)
}

func (s *TokenService) sign(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) verify(token, wantType string) (uint64, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}
