package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error = %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", 1, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error = %v", err)
	}

	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("ParseToken with wrong secret should fail")
	}
}

func TestParseToken_Expired(t *testing.T) {
	// GenerateToken refuses non-positive TTLs, so build the expired token directly
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ParseToken("secret", token); err == nil {
		t.Error("ParseToken with expired token should fail")
	}
}
