package enums

import "fmt"

// ItemStatus is the derived stock label shown to users. It is never set
// directly by a caller; writes always recompute it from the counts.
type ItemStatus string

const (
	ItemStatusInStock    ItemStatus = "In Stock"
	ItemStatusLowStock   ItemStatus = "Low Stock"
	ItemStatusOutOfStock ItemStatus = "Out of Stock"
	ItemStatusExpired    ItemStatus = "Expired"
)

var validItemStatuses = []ItemStatus{
	ItemStatusInStock,
	ItemStatusLowStock,
	ItemStatusOutOfStock,
	ItemStatusExpired,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
