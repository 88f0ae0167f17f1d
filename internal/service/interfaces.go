package service

import (
	"context"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/security"
)

type MasterItemService interface {
	List(ctx context.Context, params listing.Params) (MasterItemIndex, error)
	Get(ctx context.Context, id uint) (*domain.MasterItem, error)
	Create(ctx context.Context, input MasterItemInput) (*domain.MasterItem, error)
	Update(ctx context.Context, id uint, input MasterItemInput) (*domain.MasterItem, error)
	Delete(ctx context.Context, id uint) error
}

type UserService interface {
	List(ctx context.Context, params listing.Params) (Index[domain.User], error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	Profile(ctx context.Context, id uint) (*domain.User, []string, error)
	CreateForm(ctx context.Context) (UserForm, error)
	EditForm(ctx context.Context, id uint) (UserEditForm, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type RoleService interface {
	List(ctx context.Context, params listing.Params) (Index[domain.Role], error)
	Get(ctx context.Context, id uint) (*domain.Role, error)
	CreateForm(ctx context.Context) (RoleForm, error)
	EditForm(ctx context.Context, id uint) (RoleEditForm, error)
	Create(ctx context.Context, input RoleInput) (*domain.Role, error)
	Update(ctx context.Context, id uint, input RoleInput) (*domain.Role, error)
	Delete(ctx context.Context, id uint) error
}

type PermissionService interface {
	List(ctx context.Context, params listing.Params) (Index[domain.Permission], error)
	Get(ctx context.Context, id uint) (*domain.Permission, error)
	Create(ctx context.Context, input PermissionInput) (*domain.Permission, error)
	Update(ctx context.Context, id uint, input PermissionInput) (*domain.Permission, error)
	Delete(ctx context.Context, id uint) error
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type UserPreferenceService interface {
	Save(ctx context.Context, userID uint, input UserPreferenceInput) (*domain.UserPreference, error)
	Find(ctx context.Context, userID uint, key UserPreferenceKey) (*domain.UserPreference, error)
}

type RBACAuthorizer interface {
	HasPermission(permissions []string, required string) bool
}

type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, claims *security.Claims) ([]string, error)
}

var (
	_ MasterItemService     = (*MasterItemServiceImpl)(nil)
	_ UserService           = (*UserServiceImpl)(nil)
	_ RoleService           = (*RoleServiceImpl)(nil)
	_ PermissionService     = (*PermissionServiceImpl)(nil)
	_ AuthService           = (*AuthServiceImpl)(nil)
	_ UserPreferenceService = (*UserPreferenceServiceImpl)(nil)
	_ RBACAuthorizer        = (*RBACService)(nil)
	_ PermissionResolver    = (*DBPermissionResolver)(nil)
)
