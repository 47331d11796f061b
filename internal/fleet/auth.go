package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FleetLink/FleetLink/internal/common/auth"
	"github.com/FleetLink/FleetLink/internal/common/config"
	"github.com/FleetLink/FleetLink/internal/common/logger"
	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"github.com/FleetLink/FleetLink/internal/user"
)

// ErrInvalidCredentials 登录名或口令错误。
// 刻意不区分“用户不存在”和“口令不对”，避免探测登录名。
var ErrInvalidCredentials = errors.New("incorrect login or password")

// AuthService 注册/登录编排。口令哈希与令牌签发委托给 auth 包。
type AuthService struct {
	users *user.Repo
	cfg   config.AuthConfig
	log   logger.Logger
}

func NewAuthService(users *user.Repo, cfg config.AuthConfig, log logger.Logger) *AuthService {
	return &AuthService{users: users, cfg: cfg, log: log}
}

type RegisterInput struct {
	Login    string
	Password string
	Role     entity.Role
}

// AuthResult 注册/登录成功后的返回：用户 + 已签发的 access token。
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Register 注册新用户。登录名占用（不区分大小写、不区分软删除状态）返回冲突。
// 未指定角色时默认 employee。
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" {
		return nil, fmt.Errorf("login required: %w", errs.ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password required: %w", errs.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, errs.ErrValidation)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Login: login, Password: hashed, Role: role}
	added, err := s.users.Add(ctx, u)
	if err != nil {
		return nil, err
	}

	token, exp, err := auth.GenerateAccessToken(s.cfg, added.Login, string(added.Role))
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{"login": added.Login, "role": added.Role}).
		Info("user registered")
	return &AuthResult{User: added, Token: token, ExpiresAt: exp}, nil
}

// Login 校验口令并签发令牌。
func (s *AuthService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(u.Password, password) {
		s.log.WithField("login", login).Warn("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := auth.GenerateAccessToken(s.cfg, u.Login, string(u.Role))
	if err != nil {
		return nil, err
	}

	s.log.WithField("login", u.Login).Info("user logged in")
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}
