package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/security"
)

const userResource = "user"

type CreateUserInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
	Roles                []uint `json:"roles"`
}

// UpdateUserInput keeps the stored password when Password is empty. Roles
// replaces the assigned set; nil removes every role.
type UpdateUserInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"omitempty,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
	Roles                []uint `json:"roles"`
}

// UserForm is the data needed to render a blank user form.
type UserForm struct {
	Roles []domain.Role `json:"roles"`
}

type UserEditForm struct {
	User      *domain.User  `json:"user"`
	Roles     []domain.Role `json:"roles"`
	UserRoles []uint        `json:"userRoles"`
}

type UserServiceImpl struct {
	users repository.UserRepository
	roles repository.RoleRepository
	perms repository.PermissionRepository
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository, perms repository.PermissionRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users, roles: roles, perms: perms}
}

func (s *UserServiceImpl) List(ctx context.Context, params listing.Params) (Index[domain.User], error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, userResource, "list", outcome, time.Since(start)) }()

	req := listing.BuildQuery(params, UsersResource)
	page, err := s.users.ListPaged(ctx, req)
	if err != nil {
		outcome = "error"
		return Index[domain.User]{}, err
	}
	return Index[domain.User]{Page: page, Request: req}, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id uint) (*domain.User, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, userResource, "get", outcome, time.Since(start)) }()

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		outcome = errorOutcome(err, repository.ErrUserNotFound)
		return nil, err
	}
	return user, nil
}

// Profile returns the user with the permission names granted through their
// roles.
func (s *UserServiceImpl) Profile(ctx context.Context, id uint) (*domain.User, []string, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	perms, err := s.perms.NamesForUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, perms, nil
}

func (s *UserServiceImpl) CreateForm(ctx context.Context) (UserForm, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return UserForm{}, err
	}
	return UserForm{Roles: roles}, nil
}

func (s *UserServiceImpl) EditForm(ctx context.Context, id uint) (UserEditForm, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserEditForm{}, err
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return UserEditForm{}, err
	}
	return UserEditForm{User: user, Roles: roles, UserRoles: user.RoleIDs()}, nil
}

func (s *UserServiceImpl) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, userResource, "create", outcome, time.Since(start)) }()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := s.validate(ctx, input, input.Email, 0); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		outcome = "error"
		return nil, err
	}

	user := &domain.User{Name: input.Name, Email: input.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user, input.Roles); err != nil {
		outcome, err = s.mapWriteError(ctx, err)
		return nil, err
	}
	observability.RecordGrantSync(ctx, userResource, "success")
	return s.users.FindByID(ctx, user.ID)
}

func (s *UserServiceImpl) Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, userResource, "update", outcome, time.Since(start)) }()

	if _, err := s.users.FindByID(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrUserNotFound)
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := s.validate(ctx, input, input.Email, id); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}

	updates := map[string]any{"name": input.Name, "email": input.Email}
	if input.Password != "" {
		hash, err := security.HashPassword(input.Password)
		if err != nil {
			outcome = "error"
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if err := s.users.Update(ctx, id, updates, input.Roles); err != nil {
		outcome, err = s.mapWriteError(ctx, err)
		return nil, err
	}
	observability.RecordGrantSync(ctx, userResource, "success")
	return s.users.FindByID(ctx, id)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, userResource, "delete", outcome, time.Since(start)) }()

	if err := s.users.Delete(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrUserNotFound)
		return err
	}
	return nil
}

func (s *UserServiceImpl) validate(ctx context.Context, input any, email string, exceptID uint) error {
	ve, err := validateInput(input)
	if err != nil {
		return err
	}
	if _, bad := ve.Fields["email"]; !bad {
		taken, err := s.users.EmailTaken(ctx, email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			ve.add("email", takenMessage("email"))
		}
	}
	if ve.empty() {
		return nil
	}
	return ve
}

func (s *UserServiceImpl) mapWriteError(ctx context.Context, err error) (string, error) {
	switch {
	case errors.Is(err, repository.ErrReferenceNotFound):
		observability.RecordGrantSync(ctx, userResource, "invalid_reference")
		return "bad_request", invalidReferenceError("roles")
	case errors.Is(err, repository.ErrUserNotFound):
		return "not_found", err
	case isUniqueViolation(err):
		return "bad_request", takenError("email")
	default:
		return "error", err
	}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
