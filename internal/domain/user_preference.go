package domain

import (
	"time"

	"gorm.io/datatypes"
)

type UserPreference struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_user_preferences_scope" json:"user_id"`
	User           User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PreferenceType string         `gorm:"size:255;not null;uniqueIndex:idx_user_preferences_scope" json:"preference_type"`
	Page           string         `gorm:"size:255;not null;uniqueIndex:idx_user_preferences_scope" json:"page"`
	Settings       datatypes.JSON `gorm:"not null" json:"settings"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
