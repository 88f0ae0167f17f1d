package service

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User        *domain.User `json:"user"`
	Permissions []string     `json:"permissions"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	SignAccessToken(userID uint, email string, ttl time.Duration) (string, error)
}

type AuthServiceImpl struct {
	users repository.UserRepository
	perms repository.PermissionRepository
	jwt   TokenIssuer
	ttl   time.Duration
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, perms repository.PermissionRepository, jwt TokenIssuer, ttl time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, perms: perms, jwt: jwt, ttl: ttl, now: time.Now}
}

// Login verifies the password and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	status := "success"
	defer func() { observability.RecordAuthLogin(ctx, status) }()

	input.Email = normalizeEmail(input.Email)
	ve, err := validateInput(input)
	if err != nil {
		status = "error"
		return nil, err
	}
	if !ve.empty() {
		status = "bad_request"
		return nil, ve
	}
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			status = "invalid_credentials"
			return nil, ErrInvalidCredentials
		}
		status = "error"
		return nil, err
	}
	ok, err := security.VerifyPassword(user.PasswordHash, input.Password)
	if err != nil || !ok {
		status = "invalid_credentials"
		return nil, ErrInvalidCredentials
	}
	perms, err := s.perms.NamesForUser(ctx, user.ID)
	if err != nil {
		status = "error"
		return nil, err
	}
	token, err := s.jwt.SignAccessToken(user.ID, user.Email, s.ttl)
	if err != nil {
		status = "error"
		return nil, err
	}
	return &LoginResult{User: user, Permissions: perms, AccessToken: token, ExpiresAt: s.now().Add(s.ttl)}, nil
}
