package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestMintAndVerifyAdminToken(t *testing.T) {
	token, err := MintAdminToken(42, testSecret, time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	id, err := VerifyAdminToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if id != 42 {
		t.Errorf("admin id = %d, want 42", id)
	}
}

func TestVerifyAdminTokenExpired(t *testing.T) {
	issued := time.Now().Add(-AdminTokenTTL - time.Minute)
	token, err := MintAdminToken(42, testSecret, issued)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := VerifyAdminToken(token, testSecret); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyAdminTokenWrongSecret(t *testing.T) {
	token, err := MintAdminToken(42, testSecret, time.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := VerifyAdminToken(token, []byte("other-secret")); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyAdminTokenGarbage(t *testing.T) {
	if _, err := VerifyAdminToken("not-a-token", testSecret); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for garbage input, got %v", err)
	}
}
