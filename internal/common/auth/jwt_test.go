package auth

import (
	"testing"
	"time"

	"github.com/FleetLink/FleetLink/internal/common/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "fleetlink-test",
		Audience:        "fleetlink-api",
		TokenTTLMinutes: 60,
	}
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := testAuthConfig()

	token, expiresAt, err := GenerateAccessToken(cfg, "mary", "manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "mary" {
		t.Fatalf("expected subject mary, got %s", claims.Subject)
	}
	if claims.Role != "manager" {
		t.Fatalf("expected role manager, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti set")
	}
}

func TestGenerateAccessTokenRequiresSubjectAndSecret(t *testing.T) {
	cfg := testAuthConfig()

	if _, _, err := GenerateAccessToken(cfg, "", "admin"); err == nil {
		t.Fatalf("expected error for empty subject")
	}

	cfg.JWTSecret = ""
	if _, _, err := GenerateAccessToken(cfg, "mary", "admin"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	token, _, err := GenerateAccessToken(cfg, "mary", "manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	bad := cfg
	bad.JWTSecret = "other-secret"
	if _, err := ParseAccessToken(bad, token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}
