package models

import (
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/enums"
	"github.com/google/uuid"
)

// Profile is the canonical identity record for a signed-in user.
type Profile struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string     `gorm:"type:text;not null;uniqueIndex"`
	FullName  string     `gorm:"column:full_name;not null;default:''"`
	Role      enums.Role `gorm:"type:text;not null;default:'user'"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
