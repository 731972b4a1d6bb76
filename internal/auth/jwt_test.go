package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken(42, "student@educonnect.com", "student", "Rahul Student", testSecret, TokenTTL)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}
	if claims.Email != "student@educonnect.com" {
		t.Fatalf("unexpected email: %q", claims.Email)
	}
	if claims.UserType != "student" {
		t.Fatalf("unexpected user type: %q", claims.UserType)
	}
	if claims.Name != "Rahul Student" {
		t.Fatalf("unexpected name: %q", claims.Name)
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := SignToken(1, "a@x.com", "student", "A", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := SignToken(1, "a@x.com", "student", "A", testSecret, TokenTTL)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatalf("expected token signed with another secret to fail")
	}
}
