package domain

import (
	"time"

	"gorm.io/gorm"
)

type MasterItem struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	CategoryItemID *uint64        `json:"category_item_id"`
	AolID          *string        `gorm:"size:255" json:"aol_id"`
	ItemCode       string         `gorm:"uniqueIndex;size:255;not null" json:"item_code"`
	ItemName       string         `gorm:"size:255;not null" json:"item_name"`
	ItemCategory   *string        `gorm:"size:255;index" json:"item_category"`
	Buyer          *string        `gorm:"size:255;index" json:"buyer"`
	PPN            float64        `gorm:"column:ppn;type:decimal(10,2);not null;default:0" json:"ppn"`
	PPH            float64        `gorm:"column:pph;type:decimal(10,2);not null;default:0" json:"pph"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
