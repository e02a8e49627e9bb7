package tabular

import (
	"testing"
)

func TestColResolvesAliases(t *testing.T) {
	raw := [][]string{
		{" (a)P/N&S/N ", "po number", "Total général"},
		{"P1", "PO1", "5"},
	}
	tbl := NewTable(raw, 0)
	if idx, ok := tbl.Col(ColMaterial); !ok || idx != 0 {
		t.Fatalf("Material col = %d, %v", idx, ok)
	}
	if idx, ok := tbl.Col(ColPurchasingDoc); !ok || idx != 1 {
		t.Fatalf("PO col = %d, %v", idx, ok)
	}
	if idx, ok := tbl.Col(ColShipTotal); !ok || idx != 2 {
		t.Fatalf("total col = %d, %v", idx, ok)
	}
	if _, ok := tbl.Col(ColUnitPrice); ok {
		t.Fatal("unexpected unit price column")
	}
}

func TestColContaining(t *testing.T) {
	tbl := NewTable([][]string{{"Material", "Stat.-Rel. Delivery Date"}}, 0)
	idx, ok := tbl.ColContaining("stat", "rel")
	if !ok || idx != 1 {
		t.Fatalf("ColContaining = %d, %v", idx, ok)
	}
	if _, ok := tbl.ColContaining("nonexistent"); ok {
		t.Fatal("unexpected match")
	}
}

func TestHeaderRowOffsetDiscardsBanner(t *testing.T) {
	raw := [][]string{
		{"EBU site report", ""},
		{"Material", "Quantity"},
		{"P1", "3"},
	}
	tbl := NewTable(raw, 1)
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(tbl.Rows))
	}
	if got := tbl.Cell(0, 0); got != "P1" {
		t.Fatalf("cell = %q", got)
	}
}

func TestCoerceDecimal(t *testing.T) {
	cases := map[string]string{
		"1234":     "1234",
		"1,234.5":  "1234.5",
		"1234,5":   "1234.5",
		" 12 ":     "12",
		"-7":       "-7",
		"":         "0",
		"n/a":      "0",
		"1,234,56": "123456",
	}
	for in, want := range cases {
		if got := CoerceDecimal(in).String(); got != want {
			t.Fatalf("CoerceDecimal(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestCoerceDate(t *testing.T) {
	for _, in := range []string{"2025-03-01", "03/01/2025", "20250301"} {
		d := CoerceDate(in)
		if d.IsZero() || d.Year() != 2025 || int(d.Month()) != 3 || d.Day() != 1 {
			t.Fatalf("CoerceDate(%q) = %v", in, d)
		}
	}
	if !CoerceDate("soon").IsZero() {
		t.Fatal("garbage date should be zero")
	}
}

func TestSetCellGrowsRaggedRow(t *testing.T) {
	tbl := NewTable([][]string{{"A", "B", "C"}, {"1"}}, 0)
	tbl.SetCell(0, 2, "x")
	if got := tbl.Cell(0, 2); got != "x" {
		t.Fatalf("cell = %q", got)
	}
	if got := tbl.Cell(0, 1); got != "" {
		t.Fatalf("padding cell = %q", got)
	}
}
