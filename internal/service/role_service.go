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
)

const roleResource = "role"

// RoleInput names the role and the complete permission set it should hold
// afterwards. A nil Permissions grants nothing.
type RoleInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Permissions []uint `json:"permissions"`
}

type RoleForm struct {
	Permissions []domain.Permission `json:"permissions"`
}

type RoleEditForm struct {
	Role        *domain.Role        `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

type RoleServiceImpl struct {
	roles repository.RoleRepository
	perms repository.PermissionRepository
}

func NewRoleService(roles repository.RoleRepository, perms repository.PermissionRepository) *RoleServiceImpl {
	return &RoleServiceImpl{roles: roles, perms: perms}
}

func (s *RoleServiceImpl) List(ctx context.Context, params listing.Params) (Index[domain.Role], error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, roleResource, "list", outcome, time.Since(start)) }()

	req := listing.BuildQuery(params, RolesResource)
	page, err := s.roles.ListPaged(ctx, req)
	if err != nil {
		outcome = "error"
		return Index[domain.Role]{}, err
	}
	return Index[domain.Role]{Page: page, Request: req}, nil
}

func (s *RoleServiceImpl) Get(ctx context.Context, id uint) (*domain.Role, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, roleResource, "get", outcome, time.Since(start)) }()

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		outcome = errorOutcome(err, repository.ErrRoleNotFound)
		return nil, err
	}
	return role, nil
}

func (s *RoleServiceImpl) CreateForm(ctx context.Context) (RoleForm, error) {
	perms, err := s.perms.List(ctx)
	if err != nil {
		return RoleForm{}, err
	}
	return RoleForm{Permissions: perms}, nil
}

func (s *RoleServiceImpl) EditForm(ctx context.Context, id uint) (RoleEditForm, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return RoleEditForm{}, err
	}
	perms, err := s.perms.List(ctx)
	if err != nil {
		return RoleEditForm{}, err
	}
	return RoleEditForm{Role: role, Permissions: perms}, nil
}

func (s *RoleServiceImpl) Create(ctx context.Context, input RoleInput) (*domain.Role, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, roleResource, "create", outcome, time.Since(start)) }()

	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, input, 0); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}
	role := &domain.Role{Name: input.Name}
	if err := s.roles.Create(ctx, role, input.Permissions); err != nil {
		outcome, err = mapGrantWriteError(ctx, err, repository.ErrRoleNotFound)
		return nil, err
	}
	observability.RecordGrantSync(ctx, roleResource, "success")
	return s.roles.FindByID(ctx, role.ID)
}

// Update renames the role and replaces its permission set in one step.
func (s *RoleServiceImpl) Update(ctx context.Context, id uint, input RoleInput) (*domain.Role, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, roleResource, "update", outcome, time.Since(start)) }()

	if _, err := s.roles.FindByID(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrRoleNotFound)
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, input, id); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}
	if err := s.roles.Update(ctx, id, input.Name, input.Permissions); err != nil {
		outcome, err = mapGrantWriteError(ctx, err, repository.ErrRoleNotFound)
		return nil, err
	}
	observability.RecordGrantSync(ctx, roleResource, "success")
	return s.roles.FindByID(ctx, id)
}

func (s *RoleServiceImpl) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, roleResource, "delete", outcome, time.Since(start)) }()

	if err := s.roles.Delete(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrRoleNotFound)
		return err
	}
	return nil
}

func (s *RoleServiceImpl) validate(ctx context.Context, input RoleInput, exceptID uint) error {
	ve, err := validateInput(input)
	if err != nil {
		return err
	}
	if _, bad := ve.Fields["name"]; !bad {
		taken, err := s.roles.NameTaken(ctx, input.Name, exceptID)
		if err != nil {
			return err
		}
		if taken {
			ve.add("name", takenMessage("name"))
		}
	}
	if ve.empty() {
		return nil
	}
	return ve
}

func mapGrantWriteError(ctx context.Context, err, notFound error) (string, error) {
	switch {
	case errors.Is(err, repository.ErrReferenceNotFound):
		observability.RecordGrantSync(ctx, roleResource, "invalid_reference")
		return "bad_request", invalidReferenceError("permissions")
	case errors.Is(err, notFound):
		return "not_found", err
	case isUniqueViolation(err):
		return "bad_request", takenError("name")
	default:
		return "error", err
	}
}
