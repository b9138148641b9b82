package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrEmptyUserID   = errors.New("user id cannot be zero")
	ErrShortSecret   = errors.New("secret must be at least 32 characters")
)

// Claims carries the resolved caller identity extracted from a token.
type Claims struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// JWTManager issues and validates HS256 access and refresh tokens.
type JWTManager struct {
	secretKey            []byte
	tokenDuration        time.Duration
	refreshTokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager.
// Returns an error if the secret is shorter than 32 characters.
func NewJWTManager(secret string, tokenDuration, refreshTokenDuration time.Duration) (*JWTManager, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}

	return &JWTManager{
		secretKey:            []byte(secret),
		tokenDuration:        tokenDuration,
		refreshTokenDuration: refreshTokenDuration,
	}, nil
}

// GenerateToken generates an access token for the user.
func (m *JWTManager) GenerateToken(userID int64, email string) (string, error) {
	if userID == 0 {
		return "", ErrEmptyUserID
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     now.Add(m.tokenDuration).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an access token and returns its claims.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claimsMap, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claimsMap["user_id"].(float64)
	if !ok || userID == 0 {
		return nil, fmt.Errorf("%w: missing or invalid user_id", ErrInvalidClaims)
	}
	email, _ := claimsMap["email"].(string)

	exp, ok := claimsMap["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing or invalid exp", ErrInvalidClaims)
	}
	expiresAt := time.Unix(int64(exp), 0)
	if time.Now().After(expiresAt) {
		return nil, ErrExpiredToken
	}

	iat, _ := claimsMap["iat"].(float64)

	return &Claims{
		UserID:    int64(userID),
		Email:     email,
		ExpiresAt: expiresAt,
		IssuedAt:  time.Unix(int64(iat), 0),
	}, nil
}

// GenerateRefreshToken generates a refresh token for the user.
func (m *JWTManager) GenerateRefreshToken(userID int64) (string, error) {
	if userID == 0 {
		return "", ErrEmptyUserID
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(m.refreshTokenDuration).Unix(),
		"iat":     now.Unix(),
		"type":    "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateRefreshToken validates a refresh token and returns the user id.
func (m *JWTManager) ValidateRefreshToken(tokenString string) (int64, error) {
	claimsMap, err := m.parse(tokenString)
	if err != nil {
		return 0, err
	}

	tokenType, ok := claimsMap["type"].(string)
	if !ok || tokenType != "refresh" {
		return 0, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
	}

	userID, ok := claimsMap["user_id"].(float64)
	if !ok || userID == 0 {
		return 0, fmt.Errorf("%w: missing or invalid user_id", ErrInvalidClaims)
	}

	exp, ok := claimsMap["exp"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: missing or invalid exp", ErrInvalidClaims)
	}
	if time.Now().After(time.Unix(int64(exp), 0)) {
		return 0, ErrExpiredToken
	}

	return int64(userID), nil
}

// TokenDuration returns the configured access token lifetime.
func (m *JWTManager) TokenDuration() time.Duration {
	return m.tokenDuration
}

func (m *JWTManager) parse(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claimsMap, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claimsMap, nil
}
