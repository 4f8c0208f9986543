package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{
	"Item Name",
	"Category",
	"Current Stock",
	"Min Stock",
	"Unit",
	"Expire Date",
	"Status",
	"Location",
	"Updated",
}

// WriteCSV streams the item view as CSV. encoding/csv applies RFC 4180
// quoting, so embedded commas and quotes survive round trips.
func WriteCSV(w io.Writer, items []ItemDTO) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range items {
		expire := ""
		if item.ExpireDate != nil {
			expire = *item.ExpireDate
		}
		record := []string{
			item.Name,
			item.Category,
			fmt.Sprintf("%d", item.CurrentStock),
			fmt.Sprintf("%d", item.MinStock),
			item.Unit,
			expire,
			item.Status,
			item.Location,
			item.UpdatedAt.UTC().Format(dateLayout),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
