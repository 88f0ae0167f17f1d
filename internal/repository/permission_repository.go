package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
)

var ErrPermissionNotFound = errors.New("permission not found")

type PermissionRepository interface {
	Create(ctx context.Context, perm *domain.Permission) error
	FindByID(ctx context.Context, id uint) (*domain.Permission, error)
	NameTaken(ctx context.Context, name string, exceptID uint) (bool, error)
	List(ctx context.Context) ([]domain.Permission, error)
	ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.Permission], error)
	NamesForUser(ctx context.Context, userID uint) ([]string, error)
	Update(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

type GormPermissionRepository struct{ db *gorm.DB }

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &GormPermissionRepository{db: db}
}

const permissionEntity = "permission"

func (r *GormPermissionRepository) Create(ctx context.Context, perm *domain.Permission) error {
	return record(ctx, permissionEntity, "create", r.db.WithContext(ctx).Omit("Roles").Create(perm).Error, nil)
}

func (r *GormPermissionRepository) FindByID(ctx context.Context, id uint) (*domain.Permission, error) {
	var perm domain.Permission
	if err := r.db.WithContext(ctx).Preload("Roles").First(&perm, id).Error; err != nil {
		return nil, record(ctx, permissionEntity, "find_by_id", mapNotFound(err, ErrPermissionNotFound), ErrPermissionNotFound)
	}
	record(ctx, permissionEntity, "find_by_id", nil, nil)
	return &perm, nil
}

func (r *GormPermissionRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return taken[domain.Permission](ctx, r.db, permissionEntity, "name", name, exceptID)
}

func (r *GormPermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	perms := []domain.Permission{}
	err := r.db.WithContext(ctx).Order("name asc").Find(&perms).Error
	return perms, record(ctx, permissionEntity, "list", err, nil)
}

func (r *GormPermissionRepository) ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.Permission], error) {
	page, err := listPaged[domain.Permission](ctx, r.db, req)
	return page, record(ctx, permissionEntity, "list_paged", err, nil)
}

// NamesForUser resolves the distinct permission names granted to the user
// through any of their roles.
func (r *GormPermissionRepository) NamesForUser(ctx context.Context, userID uint) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).Model(&domain.Permission{}).
		Distinct().
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	return names, record(ctx, permissionEntity, "names_for_user", err, nil)
}

func (r *GormPermissionRepository) Update(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&domain.Permission{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return record(ctx, permissionEntity, "update", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return record(ctx, permissionEntity, "update", ErrPermissionNotFound, ErrPermissionNotFound)
	}
	return record(ctx, permissionEntity, "update", nil, nil)
}

func (r *GormPermissionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[domain.Permission](tx, id, ErrPermissionNotFound); err != nil {
			return err
		}
		if err := tx.Model(&domain.Permission{ID: id}).Association("Roles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&domain.Permission{}, id).Error
	})
	return record(ctx, permissionEntity, "delete", err, ErrPermissionNotFound)
}
