package inventory

import (
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ItemDTO is the API projection of an inventory item with its derived status.
type ItemDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	CurrentStock int        `json:"current_stock"`
	MinStock     int        `json:"min_stock"`
	Unit         string     `json:"unit"`
	ExpireDate   *string    `json:"expire_date"`
	Status       string     `json:"status"`
	Location     string     `json:"location"`
	CreatedBy    *uuid.UUID `json:"created_by"`
	UpdatedBy    *uuid.UUID `json:"updated_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateItemInput holds the validated payload to create an item.
type CreateItemInput struct {
	Name         string
	Category     string
	CurrentStock int
	MinStock     int
	Unit         string
	ExpireDate   *time.Time
	Location     string
}

// UpdateItemInput holds optional mutation values for an item. A nil field is
// left untouched; ClearExpireDate removes the expiry outright.
type UpdateItemInput struct {
	Name            *string
	Category        *string
	CurrentStock    *int
	MinStock        *int
	Unit            *string
	ExpireDate      *time.Time
	ClearExpireDate bool
	Location        *string
}

func toItemDTO(item models.InventoryItem, now time.Time) ItemDTO {
	dto := ItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		CurrentStock: item.CurrentStock,
		MinStock:     item.MinStock,
		Unit:         item.Unit,
		Status:       DeriveStatus(item, now).String(),
		Location:     item.Location,
		CreatedBy:    item.CreatedBy,
		UpdatedBy:    item.UpdatedBy,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.ExpireDate != nil {
		formatted := item.ExpireDate.UTC().Format(dateLayout)
		dto.ExpireDate = &formatted
	}
	return dto
}
