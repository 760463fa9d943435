package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// Claims carries the authenticated email as subject. Every token gets a random ID (jti)
// so a single refresh token can be revoked.
type Claims struct {
	Email    string `json:"email"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

func (m *JWTManager) sign(email, use string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		Email:    email,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) GenerateAccessToken(email string) (string, time.Time, error) {
	return m.sign(email, tokenUseAccess, m.AccessTTL, m.AccessSecret)
}

func (m *JWTManager) GenerateRefreshToken(email string) (string, time.Time, error) {
	return m.sign(email, tokenUseRefresh, m.RefreshTTL, m.RefreshSecret)
}

// GeneratePair returns an access and a refresh token for email.
func (m *JWTManager) GeneratePair(email string) (access, refresh string, err error) {
	access, _, err = m.GenerateAccessToken(email)
	if err != nil {
		return "", "", err
	}
	refresh, _, err = m.GenerateRefreshToken(email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.AccessSecret, tokenUseAccess)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.RefreshSecret, tokenUseRefresh)
}

func parseToken(tokenStr string, secret []byte, use string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenUse != use {
		return nil, errors.New("unexpected token use")
	}
	return claims, nil
}
