package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
)

var ErrMasterItemNotFound = errors.New("master item not found")

type MasterItemRepository interface {
	Create(ctx context.Context, item *domain.MasterItem) error
	FindByID(ctx context.Context, id uint) (*domain.MasterItem, error)
	FindByIDWithTrashed(ctx context.Context, id uint) (*domain.MasterItem, error)
	ItemCodeTaken(ctx context.Context, code string, exceptID uint) (bool, error)
	ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.MasterItem], error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBuyers(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type GormMasterItemRepository struct{ db *gorm.DB }

func NewMasterItemRepository(db *gorm.DB) MasterItemRepository {
	return &GormMasterItemRepository{db: db}
}

const masterItemEntity = "master_item"

func (r *GormMasterItemRepository) Create(ctx context.Context, item *domain.MasterItem) error {
	return record(ctx, masterItemEntity, "create", r.db.WithContext(ctx).Create(item).Error, nil)
}

func (r *GormMasterItemRepository) FindByID(ctx context.Context, id uint) (*domain.MasterItem, error) {
	var item domain.MasterItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, record(ctx, masterItemEntity, "find_by_id", mapNotFound(err, ErrMasterItemNotFound), ErrMasterItemNotFound)
	}
	record(ctx, masterItemEntity, "find_by_id", nil, nil)
	return &item, nil
}

// FindByIDWithTrashed also returns soft-deleted items.
func (r *GormMasterItemRepository) FindByIDWithTrashed(ctx context.Context, id uint) (*domain.MasterItem, error) {
	var item domain.MasterItem
	if err := r.db.WithContext(ctx).Unscoped().First(&item, id).Error; err != nil {
		return nil, record(ctx, masterItemEntity, "find_with_trashed", mapNotFound(err, ErrMasterItemNotFound), ErrMasterItemNotFound)
	}
	record(ctx, masterItemEntity, "find_with_trashed", nil, nil)
	return &item, nil
}

// ItemCodeTaken checks every row, tombstones included, because the unique
// index on item_code covers them too.
func (r *GormMasterItemRepository) ItemCodeTaken(ctx context.Context, code string, exceptID uint) (bool, error) {
	q := r.db.WithContext(ctx).Unscoped().Model(&domain.MasterItem{}).Where("item_code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, record(ctx, masterItemEntity, "item_code_taken", err, nil)
	}
	return n > 0, nil
}

func (r *GormMasterItemRepository) ListPaged(ctx context.Context, req listing.ListRequest) (listing.Page[domain.MasterItem], error) {
	page, err := listPaged[domain.MasterItem](ctx, r.db, req)
	return page, record(ctx, masterItemEntity, "list_paged", err, nil)
}

func (r *GormMasterItemRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "item_category")
}

func (r *GormMasterItemRepository) DistinctBuyers(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "buyer")
}

func (r *GormMasterItemRepository) distinct(ctx context.Context, column string) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).Model(&domain.MasterItem{}).
		Distinct().
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Order(column).
		Pluck(column, &out).Error
	return out, record(ctx, masterItemEntity, "distinct_"+column, err, nil)
}

func (r *GormMasterItemRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.MasterItem{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return record(ctx, masterItemEntity, "update", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return record(ctx, masterItemEntity, "update", ErrMasterItemNotFound, ErrMasterItemNotFound)
	}
	return record(ctx, masterItemEntity, "update", nil, nil)
}

// Delete tombstones the item; the row stays readable through
// FindByIDWithTrashed.
func (r *GormMasterItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.MasterItem{}, id)
	if res.Error != nil {
		return record(ctx, masterItemEntity, "delete", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return record(ctx, masterItemEntity, "delete", ErrMasterItemNotFound, ErrMasterItemNotFound)
	}
	return record(ctx, masterItemEntity, "delete", nil, nil)
}
