package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a lookup entry items reference by name.
type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"type:text;not null;uniqueIndex"`
	Description string     `gorm:"type:text;not null;default:''"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;column:created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
