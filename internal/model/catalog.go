package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups waste items (metal, plastic, paper, ...)
type Category struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	WasteItems  []WasteItem `gorm:"foreignKey:CategoryID" json:"waste_items,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// WasteItem is a purchasable catalog entry. Name is unique within its
// category, not globally. Items referenced by transaction lines are never
// hard-deleted; they are deactivated instead.
type WasteItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_waste_items_name_category,priority:1" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // price per unit, never negative
	Unit       string          `gorm:"type:varchar(20);not null" json:"unit"`    // e.g. "Kg"
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_waste_items_name_category,priority:2" json:"category_id"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	// IsActive has no column default: a false zero value must reach the
	// database instead of being dropped from the insert.
	IsActive   bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (w *WasteItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
