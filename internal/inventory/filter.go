package inventory

import "strings"

// matchAll is the sentinel clients send for an inactive dropdown filter.
const matchAll = "all"

// ListFilters narrows the item view. Blank or "all" values are inactive;
// active filters intersect.
type ListFilters struct {
	Search   string
	Category string
	Location string
	Status   string
}

// ApplyFilters returns the items matching every active filter, preserving
// input order. Search is a case-insensitive substring match on the name.
func ApplyFilters(items []ItemDTO, filters ListFilters) []ItemDTO {
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	result := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		if filterActive(filters.Category) && item.Category != filters.Category {
			continue
		}
		if filterActive(filters.Location) && item.Location != filters.Location {
			continue
		}
		if filterActive(filters.Status) && item.Status != filters.Status {
			continue
		}
		result = append(result, item)
	}
	return result
}

func filterActive(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.EqualFold(trimmed, matchAll)
}
