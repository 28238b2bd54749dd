package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"collabhub/config"
	"collabhub/models"
)

func setTestSecret(t *testing.T) {
	t.Helper()
	config.AppConfig.JWTSecret = "jwt-test-secret"
	config.AppConfig.JWTExpiryHours = 24
}

func TestTokenRoundTrip(t *testing.T) {
	setTestSecret(t)

	user := &models.User{ID: 42}
	token, err := GenerateJWTToken(user)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	claims, err := ParseJWTToken(token)
	if err != nil {
		t.Fatalf("ParseJWTToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected user id 42, got %d", claims.UserID)
	}
	if claims.ExpiresAt == nil {
		t.Error("Expected an expiry to be set")
	}
}

func TestTokenWithoutExpiry(t *testing.T) {
	setTestSecret(t)
	config.AppConfig.JWTExpiryHours = 0

	token, err := GenerateJWTToken(&models.User{ID: 7})
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	claims, err := ParseJWTToken(token)
	if err != nil {
		t.Fatalf("ParseJWTToken: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("Expected no expiry, got %v", claims.ExpiresAt)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	setTestSecret(t)

	claims := &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWTToken(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	setTestSecret(t)

	token, err := GenerateJWTToken(&models.User{ID: 42})
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	// Corrupt the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ParseJWTToken(tampered); err == nil {
		t.Error("Expected tampered token to be rejected")
	}
}

func TestTokenFromDifferentSignerRejected(t *testing.T) {
	setTestSecret(t)

	claims := &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWTToken(token); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}
}
