package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User, roleIDs []uint) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.User], error)
	Update(ctx context.Context, id uint, updates map[string]any, roleIDs []uint) error
	SyncRoles(ctx context.Context, userID uint, roleIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

const userEntity = "user"

// Create inserts the user and assigns roleIDs in one transaction.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User, roleIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return err
		}
		return syncGrants[domain.Role](tx, user, "Roles", roleIDs)
	})
	return record(ctx, userEntity, "create", err, nil)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Roles.Permissions").First(&u, id).Error; err != nil {
		return nil, record(ctx, userEntity, "find_by_id", mapNotFound(err, ErrUserNotFound), ErrUserNotFound)
	}
	record(ctx, userEntity, "find_by_id", nil, nil)
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Roles.Permissions").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, record(ctx, userEntity, "find_by_email", mapNotFound(err, ErrUserNotFound), ErrUserNotFound)
	}
	record(ctx, userEntity, "find_by_email", nil, nil)
	return &u, nil
}

func (r *GormUserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	return taken[domain.User](ctx, r.db, userEntity, "email", email, exceptID)
}

func (r *GormUserRepository) ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.User], error) {
	page, err := listPaged[domain.User](ctx, r.db, req, "Roles")
	return page, record(ctx, userEntity, "list_paged", err, nil)
}

// Update applies the column updates and replaces the role set atomically.
// A nil roleIDs clears the set.
func (r *GormUserRepository) Update(ctx context.Context, id uint, updates map[string]any, roleIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return syncGrants[domain.Role](tx, &domain.User{ID: id}, "Roles", roleIDs)
	})
	return record(ctx, userEntity, "update", err, ErrUserNotFound)
}

func (r *GormUserRepository) SyncRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[domain.User](tx, userID, ErrUserNotFound); err != nil {
			return err
		}
		return syncGrants[domain.Role](tx, &domain.User{ID: userID}, "Roles", roleIDs)
	})
	return record(ctx, userEntity, "sync_roles", err, ErrUserNotFound)
}

func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[domain.User](tx, id, ErrUserNotFound); err != nil {
			return err
		}
		if err := tx.Model(&domain.User{ID: id}).Association("Roles").Clear(); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.UserPreference{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
	return record(ctx, userEntity, "delete", err, ErrUserNotFound)
}

func exists[T any](tx *gorm.DB, id uint, notFound error) error {
	var n int64
	var model T
	if err := tx.Model(&model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func taken[T any](ctx context.Context, db *gorm.DB, entity, column, value string, exceptID uint) (bool, error) {
	var model T
	q := db.WithContext(ctx).Model(&model).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, record(ctx, entity, column+"_taken", err, nil)
	}
	return n > 0, nil
}
