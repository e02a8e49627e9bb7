package pag

import (
	"testing"
	"time"

	"PagRecon/internal/tabular"
)

func shipTable(t *testing.T, headers []string, rows [][]string) *tabular.Table {
	t.Helper()
	raw := [][]string{headers}
	raw = append(raw, rows...)
	return tabular.NewTable(raw, 0)
}

func TestParseShipmentLogRequiresColumns(t *testing.T) {
	_, err := ParseShipmentLog(shipTable(t, []string{"Total général"}, nil))
	if err == nil {
		t.Fatal("expected error for missing part number column")
	}
	_, err = ParseShipmentLog(shipTable(t, []string{"(a)P/N&S/N"}, nil))
	if err == nil {
		t.Fatal("expected error for missing shipped total column")
	}
}

func TestShipmentTotalsUseAbsoluteQuantity(t *testing.T) {
	log, err := ParseShipmentLog(shipTable(t,
		[]string{"(a)P/N&S/N", "PO Number", "Total général"},
		[][]string{
			{"P1", "PO1", "-4"},
			{"P1", "PO1", "6"},
			{"P2", "PO2", "3"},
		}))
	if err != nil {
		t.Fatalf("ParseShipmentLog failed: %v", err)
	}
	if !log.HasPO {
		t.Fatal("PO column not detected")
	}
	totals := log.Totals(true)
	if got := totals[Key{Material: "P1", PurchasingDoc: "PO1"}]; got.String() != "10" {
		t.Fatalf("P1/PO1 total = %s, want 10", got)
	}
	if got := totals[Key{Material: "P2", PurchasingDoc: "PO2"}]; got.String() != "3" {
		t.Fatalf("P2/PO2 total = %s, want 3", got)
	}
}

func TestShipmentTotalsByMaterialOnly(t *testing.T) {
	log, err := ParseShipmentLog(shipTable(t,
		[]string{"(a)P/N&S/N", "Total général"},
		[][]string{
			{"P1", "4"},
			{"P1", "6"},
		}))
	if err != nil {
		t.Fatalf("ParseShipmentLog failed: %v", err)
	}
	if log.HasPO {
		t.Fatal("PO column should not be detected")
	}
	totals := log.Totals(false)
	if got := totals[Key{Material: "P1"}]; got.String() != "10" {
		t.Fatalf("P1 total = %s, want 10", got)
	}
}

func TestSlipDateFromPackingSlipPrefix(t *testing.T) {
	log, err := ParseShipmentLog(shipTable(t,
		[]string{"Material", "PO Number", "Total général", "Packing Slip"},
		[][]string{
			{"P1", "PO1", "1", "20250115-A77"},
			{"P1", "PO1", "1", "20250301-B02"},
			{"P2", "PO2", "1", "notadate"},
		}))
	if err != nil {
		t.Fatalf("ParseShipmentLog failed: %v", err)
	}
	dates := log.LatestSlipDates()
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := dates[Key{Material: "P1", PurchasingDoc: "PO1"}]; !got.Equal(want) {
		t.Fatalf("latest slip date = %v, want %v", got, want)
	}
	if _, ok := dates[Key{Material: "P2", PurchasingDoc: "PO2"}]; ok {
		t.Fatal("unparsable slip code should yield no date")
	}
}
