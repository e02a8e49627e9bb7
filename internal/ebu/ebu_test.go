package ebu

import (
	"testing"
	"time"

	"PagRecon/internal/pag"

	"github.com/xuri/excelize/v2"
)

func buildEBUWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	// header on row 0
	if err := f.SetSheetName("Sheet1", "EBU Main"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	rows := [][]interface{}{
		{"Material", "PO Number", "Ship Date", "Quantity", "Unit Price"},
		{"P1", "PO1", "2025-02-10", "4", "5"},
		{"P1", "PO1", "2025-03-20", "6", "5.5"},
		{"P2", "PO2", "not a date", "2", "9"},
	}
	writeRows(t, f, "EBU Main", rows)

	// banner row, header on row 1
	if _, err := f.NewSheet("Spares"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	writeRows(t, f, "Spares", [][]interface{}{
		{"Spares site export", "", "", "", ""},
		{"Material", "PO Number", "Ship Date", "Quantity", "Unit Price"},
		{"P3", "PO3", "2025-04-01", "bad", "7"},
	})
	return f
}

func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
}

func TestParseConcatenatesMatchedSheets(t *testing.T) {
	f := buildEBUWorkbook(t)
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// 3 rows from EBU Main + 1 from Spares
	if got := len(data.Shipments); got != 4 {
		t.Fatalf("shipments = %d, want 4", got)
	}

	var spares *Record
	for i := range data.Shipments {
		if data.Shipments[i].Material == "P3" {
			spares = &data.Shipments[i]
		}
	}
	if spares == nil {
		t.Fatal("offset-header sheet row missing")
	}
	if !spares.Quantity.IsZero() {
		t.Fatalf("unparsable quantity = %s, want 0", spares.Quantity)
	}

	badDate := data.Shipments[2]
	if !badDate.ShipDate.IsZero() {
		t.Fatalf("unparsable date = %v, want zero", badDate.ShipDate)
	}
}

func TestParsePricesKeepLast(t *testing.T) {
	f := buildEBUWorkbook(t)
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	k := pag.Key{Material: "P1", PurchasingDoc: "PO1"}
	if got := data.Prices.Get(k); got.String() != "5.5" {
		t.Fatalf("price = %s, want 5.5 (keep-last)", got)
	}
	if got := data.Prices.Get(pag.Key{Material: "P9"}); !got.IsZero() {
		t.Fatalf("missing price = %s, want 0", got)
	}
}

func TestTotalsAfterCutoff(t *testing.T) {
	f := buildEBUWorkbook(t)
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	k1 := pag.Key{Material: "P1", PurchasingDoc: "PO1"}
	k3 := pag.Key{Material: "P3", PurchasingDoc: "PO3"}

	// P1/PO1 appears in the shipment log with a slip from Feb 10: only the
	// March row counts, and strictly-after excludes a row dated at the
	// cutoff itself. P3/PO3 is absent from the log, so the fallback applies.
	logDates := map[pag.Key]time.Time{
		k1: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	fallback := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	totals := data.TotalsAfterCutoff(logDates, fallback)

	if got := totals[k1]; got.String() != "6" {
		t.Fatalf("P1/PO1 total = %s, want 6", got)
	}
	if _, ok := totals[k3]; !ok {
		t.Fatal("fallback cutoff did not admit P3/PO3")
	}
	if got := totals[k3]; !got.IsZero() {
		t.Fatalf("P3/PO3 total = %s, want 0 (quantity was unparsable)", got)
	}

	// No cutoff anywhere: nothing qualifies.
	empty := data.TotalsAfterCutoff(nil, time.Time{})
	if len(empty) != 0 {
		t.Fatalf("totals without any cutoff = %d entries, want 0", len(empty))
	}
}
