package auth

import (
	"strings"
	"testing"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hashed, err := HashPassword("p@ssw0rd")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.Contains(hashed, ":") {
		t.Fatalf("expected hash:salt format, got %q", hashed)
	}
	if !VerifyPassword(hashed, "p@ssw0rd") {
		t.Fatalf("expected verify ok")
	}
	if VerifyPassword(hashed, "wrong") {
		t.Fatalf("expected verify fail")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestHashPasswordSaltedPerCall(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Fatalf("expected different salts to produce different outputs")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	if VerifyPassword("no-separator", "x") {
		t.Fatalf("expected verify fail for malformed stored value")
	}
	if VerifyPassword("not-base64:also-not!", "x") {
		t.Fatalf("expected verify fail for undecodable stored value")
	}
}
