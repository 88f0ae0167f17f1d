package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
)

var ErrUserPreferenceNotFound = errors.New("user preference not found")

type UserPreferenceRepository interface {
	Upsert(ctx context.Context, pref *domain.UserPreference) error
	Find(ctx context.Context, userID uint, preferenceType, page string) (*domain.UserPreference, error)
}

type GormUserPreferenceRepository struct{ db *gorm.DB }

func NewUserPreferenceRepository(db *gorm.DB) UserPreferenceRepository {
	return &GormUserPreferenceRepository{db: db}
}

const userPreferenceEntity = "user_preference"

// Upsert writes pref keyed by (user_id, preference_type, page), replacing the
// stored settings when the key already exists.
func (r *GormUserPreferenceRepository) Upsert(ctx context.Context, pref *domain.UserPreference) error {
	err := r.db.WithContext(ctx).Omit("User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "preference_type"}, {Name: "page"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
	}).Create(pref).Error
	return record(ctx, userPreferenceEntity, "upsert", err, nil)
}

func (r *GormUserPreferenceRepository) Find(ctx context.Context, userID uint, preferenceType, page string) (*domain.UserPreference, error) {
	var pref domain.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND preference_type = ? AND page = ?", userID, preferenceType, page).
		First(&pref).Error
	if err != nil {
		return nil, record(ctx, userPreferenceEntity, "find", mapNotFound(err, ErrUserPreferenceNotFound), ErrUserPreferenceNotFound)
	}
	record(ctx, userPreferenceEntity, "find", nil, nil)
	return &pref, nil
}
