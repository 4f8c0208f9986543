package inventory

import (
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/types"
)

const dateLayout = "2006-01-02"

// ComputeDiff builds the update change set: field name to {from,to} for every
// field whose value changed, including the derived status. An empty map means
// nothing observable changed and no activity entry should be written.
func ComputeDiff(before, after models.InventoryItem, now time.Time) types.ChangeSet {
	changes := types.ChangeSet{}

	if before.Name != after.Name {
		changes["name"] = fromTo(before.Name, after.Name)
	}
	if before.Category != after.Category {
		changes["category"] = fromTo(before.Category, after.Category)
	}
	if before.CurrentStock != after.CurrentStock {
		changes["current_stock"] = fromTo(before.CurrentStock, after.CurrentStock)
	}
	if before.MinStock != after.MinStock {
		changes["min_stock"] = fromTo(before.MinStock, after.MinStock)
	}
	if before.Unit != after.Unit {
		changes["unit"] = fromTo(before.Unit, after.Unit)
	}
	if !sameDate(before.ExpireDate, after.ExpireDate) {
		changes["expire_date"] = fromTo(formatDate(before.ExpireDate), formatDate(after.ExpireDate))
	}
	if before.Location != after.Location {
		changes["location"] = fromTo(before.Location, after.Location)
	}

	beforeStatus := DeriveStatus(before, now)
	afterStatus := DeriveStatus(after, now)
	if beforeStatus != afterStatus {
		changes["status"] = fromTo(beforeStatus.String(), afterStatus.String())
	}

	return changes
}

// Snapshot captures the full field state used for create and delete entries.
func Snapshot(item models.InventoryItem, now time.Time) types.ChangeSet {
	return types.ChangeSet{
		"name":          item.Name,
		"category":      item.Category,
		"current_stock": item.CurrentStock,
		"min_stock":     item.MinStock,
		"unit":          item.Unit,
		"expire_date":   formatDate(item.ExpireDate),
		"location":      item.Location,
		"status":        DeriveStatus(item, now).String(),
	}
}

func fromTo(from, to any) map[string]any {
	return map[string]any{"from": from, "to": to}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return truncateToDate(*a).Equal(truncateToDate(*b))
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dateLayout)
}
