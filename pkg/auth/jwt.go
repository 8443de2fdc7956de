package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// RoleAdmin is the only role the API issues tokens for
const RoleAdmin = "admin"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
)

type Claims struct {
	Role string    `json:"role"`
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

func generateToken(subject, role string, typ TokenType, secretKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func GenerateAccessToken(subject, role, secretKey string, expireMinutes int) (string, error) {
	return generateToken(subject, role, AccessToken, secretKey, time.Duration(expireMinutes)*time.Minute)
}

func GenerateRefreshToken(subject, role, secretKey string, expireDays int) (string, error) {
	return generateToken(subject, role, RefreshToken, secretKey, time.Duration(expireDays)*24*time.Hour)
}

func ValidateAccessToken(tokenString, secretKey string) (*Claims, error) {
	return validateToken(tokenString, secretKey, AccessToken)
}

func ValidateRefreshToken(tokenString, secretKey string) (*Claims, error) {
	return validateToken(tokenString, secretKey, RefreshToken)
}

func validateToken(tokenString, secretKey string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != expectedType {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// GenerateTokenPair generates both access and refresh tokens
func GenerateTokenPair(subject, role, secretKey string, accessExpireMin, refreshExpireDays int) (accessToken, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(subject, role, secretKey, accessExpireMin)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = GenerateRefreshToken(subject, role, secretKey, refreshExpireDays)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
