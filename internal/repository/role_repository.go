package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role, permissionIDs []uint) error
	FindByID(ctx context.Context, id uint) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	NameTaken(ctx context.Context, name string, exceptID uint) (bool, error)
	List(ctx context.Context) ([]domain.Role, error)
	ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.Role], error)
	Update(ctx context.Context, id uint, name string, permissionIDs []uint) error
	SyncPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type GormRoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository { return &GormRoleRepository{db: db} }

const roleEntity = "role"

func (r *GormRoleRepository) Create(ctx context.Context, role *domain.Role, permissionIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions", "Users").Create(role).Error; err != nil {
			return err
		}
		return syncGrants[domain.Permission](tx, role, "Permissions", permissionIDs)
	})
	return record(ctx, roleEntity, "create", err, nil)
}

func (r *GormRoleRepository) FindByID(ctx context.Context, id uint) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, record(ctx, roleEntity, "find_by_id", mapNotFound(err, ErrRoleNotFound), ErrRoleNotFound)
	}
	record(ctx, roleEntity, "find_by_id", nil, nil)
	return &role, nil
}

func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		return nil, record(ctx, roleEntity, "find_by_name", mapNotFound(err, ErrRoleNotFound), ErrRoleNotFound)
	}
	record(ctx, roleEntity, "find_by_name", nil, nil)
	return &role, nil
}

func (r *GormRoleRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return taken[domain.Role](ctx, r.db, roleEntity, "name", name, exceptID)
}

func (r *GormRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	roles := []domain.Role{}
	err := r.db.WithContext(ctx).Order("name asc").Find(&roles).Error
	return roles, record(ctx, roleEntity, "list", err, nil)
}

func (r *GormRoleRepository) ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.Role], error) {
	page, err := listPaged[domain.Role](ctx, r.db, req, "Permissions")
	return page, record(ctx, roleEntity, "list_paged", err, nil)
}

// Update renames the role and replaces its permission set atomically. A nil
// permissionIDs revokes every permission.
func (r *GormRoleRepository) Update(ctx context.Context, id uint, name string, permissionIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Role{}).Where("id = ?", id).Update("name", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoleNotFound
		}
		return syncGrants[domain.Permission](tx, &domain.Role{ID: id}, "Permissions", permissionIDs)
	})
	return record(ctx, roleEntity, "update", err, ErrRoleNotFound)
}

func (r *GormRoleRepository) SyncPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[domain.Role](tx, roleID, ErrRoleNotFound); err != nil {
			return err
		}
		return syncGrants[domain.Permission](tx, &domain.Role{ID: roleID}, "Permissions", permissionIDs)
	})
	return record(ctx, roleEntity, "sync_permissions", err, ErrRoleNotFound)
}

// Delete removes the role with its permission grants and user assignments.
func (r *GormRoleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[domain.Role](tx, id, ErrRoleNotFound); err != nil {
			return err
		}
		owner := &domain.Role{ID: id}
		if err := tx.Model(owner).Association("Permissions").Clear(); err != nil {
			return err
		}
		if err := tx.Model(owner).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(&domain.Role{}, id).Error
	})
	return record(ctx, roleEntity, "delete", err, ErrRoleNotFound)
}
