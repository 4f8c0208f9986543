package inventory

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func TestWriteCSVHeaderAndRows(t *testing.T) {
	expire := "2025-09-01"
	items := []ItemDTO{
		{
			Name:         "Basmati Rice",
			Category:     "Dry Goods",
			CurrentStock: 12,
			MinStock:     3,
			Unit:         "kg",
			ExpireDate:   &expire,
			Status:       "In Stock",
			Location:     "Pantry",
			UpdatedAt:    time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			Name:      "Milk",
			Status:    "Out of Stock",
			UpdatedAt: time.Date(2025, 8, 9, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, items); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "Item Name" || records[0][8] != "Updated" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][0] != "Basmati Rice" || records[1][5] != "2025-09-01" || records[1][8] != "2025-08-10" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	if records[2][5] != "" {
		t.Fatalf("missing expire date should be blank, got %q", records[2][5])
	}
}

func TestWriteCSVQuotesSpecialCharacters(t *testing.T) {
	items := []ItemDTO{
		{Name: `Olive Oil "Extra", 1L`, Status: "In Stock", UpdatedAt: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, items); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	raw := buf.String()
	if !strings.Contains(raw, `"Olive Oil ""Extra"", 1L"`) {
		t.Fatalf("expected doubled quotes in output, got %s", raw)
	}

	records, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if records[1][0] != `Olive Oil "Extra", 1L` {
		t.Fatalf("round trip mangled value: %q", records[1][0])
	}
}
