package inventory

import (
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
)

// DeriveStatus computes the display status for an item. Expiry wins over
// stock levels; a zero stock wins over a low one. Expiry is evaluated at
// date granularity in UTC, so an item expiring today is not yet expired.
func DeriveStatus(item models.InventoryItem, now time.Time) enums.ItemStatus {
	if item.ExpireDate != nil {
		today := truncateToDate(now)
		expire := truncateToDate(*item.ExpireDate)
		if expire.Before(today) {
			return enums.ItemStatusExpired
		}
	}
	if item.CurrentStock <= 0 {
		return enums.ItemStatusOutOfStock
	}
	if item.CurrentStock <= item.MinStock {
		return enums.ItemStatusLowStock
	}
	return enums.ItemStatusInStock
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
