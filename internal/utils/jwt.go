package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenTTL is how long access tokens stay valid.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is how long refresh tokens stay valid.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents JWT claims for a session
type Claims struct {
	ProfileID string `json:"profileId"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates session tokens with an injected secret.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a TokenManager. The secret should be a strong
// random string.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken generates a short-lived access token for a profile.
func (m *TokenManager) GenerateToken(profileID, username string) (string, error) {
	return m.sign(profileID, username, AccessTokenTTL)
}

// GenerateRefreshToken generates a long-lived refresh token.
func (m *TokenManager) GenerateRefreshToken(profileID, username string) (string, error) {
	return m.sign(profileID, username, RefreshTokenTTL)
}

func (m *TokenManager) sign(profileID, username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		ProfileID: profileID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates and parses a token.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
