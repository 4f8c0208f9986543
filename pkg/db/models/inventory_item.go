package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a tracked stock line. Category and Location reference the
// lookup tables by name; status is derived on read, never stored.
type InventoryItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"type:text;not null"`
	Category     string     `gorm:"type:text;not null;index"`
	CurrentStock int        `gorm:"column:current_stock;not null;default:0"`
	MinStock     int        `gorm:"column:min_stock;not null;default:0"`
	Unit         string     `gorm:"type:text;not null;default:''"`
	ExpireDate   *time.Time `gorm:"column:expire_date"`
	Location     string     `gorm:"type:text;not null;index"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid;column:created_by"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid;column:updated_by"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
