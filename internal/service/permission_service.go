package service

import (
	"context"
	"strings"
	"time"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
)

const permissionResource = "permission"

type PermissionInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type PermissionServiceImpl struct {
	perms repository.PermissionRepository
}

func NewPermissionService(perms repository.PermissionRepository) *PermissionServiceImpl {
	return &PermissionServiceImpl{perms: perms}
}

func (s *PermissionServiceImpl) List(ctx context.Context, params listing.Params) (Index[domain.Permission], error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, permissionResource, "list", outcome, time.Since(start)) }()

	req := listing.BuildQuery(params, PermissionsResource)
	page, err := s.perms.ListPaged(ctx, req)
	if err != nil {
		outcome = "error"
		return Index[domain.Permission]{}, err
	}
	return Index[domain.Permission]{Page: page, Request: req}, nil
}

func (s *PermissionServiceImpl) Get(ctx context.Context, id uint) (*domain.Permission, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, permissionResource, "get", outcome, time.Since(start)) }()

	perm, err := s.perms.FindByID(ctx, id)
	if err != nil {
		outcome = errorOutcome(err, repository.ErrPermissionNotFound)
		return nil, err
	}
	return perm, nil
}

func (s *PermissionServiceImpl) Create(ctx context.Context, input PermissionInput) (*domain.Permission, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, permissionResource, "create", outcome, time.Since(start)) }()

	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, input, 0); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}
	perm := &domain.Permission{Name: input.Name}
	if err := s.perms.Create(ctx, perm); err != nil {
		if isUniqueViolation(err) {
			outcome = "bad_request"
			return nil, takenError("name")
		}
		outcome = "error"
		return nil, err
	}
	return perm, nil
}

func (s *PermissionServiceImpl) Update(ctx context.Context, id uint, input PermissionInput) (*domain.Permission, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, permissionResource, "update", outcome, time.Since(start)) }()

	if _, err := s.perms.FindByID(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrPermissionNotFound)
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, input, id); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}
	if err := s.perms.Update(ctx, id, input.Name); err != nil {
		if isUniqueViolation(err) {
			outcome = "bad_request"
			return nil, takenError("name")
		}
		outcome = errorOutcome(err, repository.ErrPermissionNotFound)
		return nil, err
	}
	return s.perms.FindByID(ctx, id)
}

// Delete removes the permission and revokes it from every role.
func (s *PermissionServiceImpl) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, permissionResource, "delete", outcome, time.Since(start)) }()

	if err := s.perms.Delete(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrPermissionNotFound)
		return err
	}
	return nil
}

func (s *PermissionServiceImpl) validate(ctx context.Context, input PermissionInput, exceptID uint) error {
	ve, err := validateInput(input)
	if err != nil {
		return err
	}
	if _, bad := ve.Fields["name"]; !bad {
		taken, err := s.perms.NameTaken(ctx, input.Name, exceptID)
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
