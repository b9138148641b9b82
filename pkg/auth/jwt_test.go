package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-that-is-long-enough-32"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

func TestNewJWTManager_RejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email, got %q", claims.Email)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Error("token already expired")
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{name: "flipped payload", token: tamper(token)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewJWTManager("another-secret-key-that-is-long-enough", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	token, err := m.GenerateToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	refresh, err := m.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	userID, err := m.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("failed to validate refresh token: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}

	// An access token is not a refresh token.
	access, err := m.GenerateToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := m.ValidateRefreshToken(access); err == nil {
		t.Fatal("expected access token to fail refresh validation")
	}
}

func tamper(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return token + "x"
	}
	payload := []byte(parts[1])
	payload[0] ^= 1
	return parts[0] + "." + string(payload) + "." + parts[2]
}
