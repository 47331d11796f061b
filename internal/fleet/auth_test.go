package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/FleetLink/FleetLink/internal/common/config"
	"github.com/FleetLink/FleetLink/internal/common/logger"
	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"github.com/FleetLink/FleetLink/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(&entity.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.NewLogger("error", "text", "stdout", "")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "fleetlink-test",
		TokenTTLMinutes: 60,
	}
	return NewAuthService(user.NewRepo(gdb), cfg, log)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Login: "mary", Password: "p@ssw0rd", Role: entity.RoleManager})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token issued on register")
	}
	if res.User.Password == "p@ssw0rd" {
		t.Fatalf("plaintext password must not be stored")
	}

	logged, err := svc.Login(ctx, "MARY", "p@ssw0rd")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.User.Role != entity.RoleManager {
		t.Fatalf("expected role manager, got %s", logged.User.Role)
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	svc := newAuthService(t)

	res, err := svc.Register(context.Background(), RegisterInput{Login: "bob", Password: "x"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Role != entity.RoleEmployee {
		t.Fatalf("expected default role employee, got %s", res.User.Role)
	}
}

func TestRegisterConflict(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Login: "mary", Password: "x"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Login: "Mary", Password: "y"}); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Login: "", Password: "x"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty login, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Login: "mary", Password: ""}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Login: "mary", Password: "x", Role: "tsar"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "nobody", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown login, got %v", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Login: "mary", Password: "right"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "mary", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}
