// Package ebu parses the EBU shipment workbook: one sheet per site, all
// similarly shaped, a couple with an extra banner row above the header.
package ebu

import (
	"time"

	"PagRecon/internal/pag"
	"PagRecon/internal/tabular"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetNames is the fixed set of site sheets read from the workbook.
// Sheets missing from an upload are skipped.
var SheetNames = []string{
	"EBU Main",
	"EBU North",
	"EBU South",
	"EBU Export",
	"Spares",
}

// offsetHeaderSheets carry a banner row, so their header sits on row 1
// instead of row 0.
var offsetHeaderSheets = map[string]bool{
	"EBU Export": true,
	"Spares":     true,
}

// Record is one shipment row out of the workbook. Quantity and UnitPrice
// are zero when the cell is not numeric; ShipDate is the zero time when it
// does not parse.
type Record struct {
	Material      string
	PurchasingDoc string
	ShipDate      time.Time
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
}

// Data is the concatenation of all matched sheets.
type Data struct {
	Shipments []Record
	Prices    pag.PriceLookup
}

// Parse walks the known sheets of the workbook and extracts the shipment
// subset and the price subset wherever the expected columns are present.
func Parse(f *excelize.File) (*Data, error) {
	data := &Data{Prices: make(pag.PriceLookup)}
	for _, name := range SheetNames {
		idx, err := f.GetSheetIndex(name)
		if err != nil || idx < 0 {
			continue
		}
		raw, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		headerRow := 0
		if offsetHeaderSheets[name] {
			headerRow = 1
		}
		t := tabular.NewTable(raw, headerRow)
		data.collectShipments(t)
		data.collectPrices(t)
	}
	return data, nil
}

func (d *Data) collectShipments(t *tabular.Table) {
	matCol, ok1 := t.Col(tabular.ColMaterial)
	poCol, ok2 := t.Col(tabular.ColPurchasingDoc)
	dateCol, ok3 := t.Col(tabular.ColShipDate)
	qtyCol, ok4 := t.Col(tabular.ColQuantity)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}
	for i := range t.Rows {
		mat := t.Cell(i, matCol)
		if mat == "" {
			continue
		}
		d.Shipments = append(d.Shipments, Record{
			Material:      mat,
			PurchasingDoc: t.Cell(i, poCol),
			ShipDate:      tabular.CoerceDate(t.Cell(i, dateCol)),
			Quantity:      t.Decimal(i, qtyCol),
		})
	}
}

func (d *Data) collectPrices(t *tabular.Table) {
	matCol, ok1 := t.Col(tabular.ColMaterial)
	poCol, ok2 := t.Col(tabular.ColPurchasingDoc)
	priceCol, ok3 := t.Col(tabular.ColUnitPrice)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	for i := range t.Rows {
		mat := t.Cell(i, matCol)
		if mat == "" {
			continue
		}
		k := pag.Key{Material: mat, PurchasingDoc: t.Cell(i, poCol)}
		d.Prices.Put(k, t.Decimal(i, priceCol))
	}
}

// TotalsAfterCutoff sums shipped quantity per (Material, PO) counting only
// rows whose ship date is strictly after the cutoff for that key: the latest
// shipment-log slip date when the key appears there, the fallback cutoff
// otherwise. Rows without a parsable ship date never qualify.
func (d *Data) TotalsAfterCutoff(logDates map[pag.Key]time.Time, fallback time.Time) map[pag.Key]decimal.Decimal {
	out := make(map[pag.Key]decimal.Decimal)
	for _, rec := range d.Shipments {
		if rec.ShipDate.IsZero() {
			continue
		}
		k := pag.Key{Material: rec.Material, PurchasingDoc: rec.PurchasingDoc}
		cutoff, ok := logDates[k]
		if !ok {
			cutoff = fallback
		}
		if cutoff.IsZero() || !rec.ShipDate.After(cutoff) {
			continue
		}
		out[k] = out[k].Add(rec.Quantity.Abs())
	}
	return out
}

// CountsByKey tallies shipment rows per (Material, PO) for the auxiliary
// EBU_Counts output sheet.
func (d *Data) CountsByKey() map[pag.Key]int {
	out := make(map[pag.Key]int)
	for _, rec := range d.Shipments {
		k := pag.Key{Material: rec.Material, PurchasingDoc: rec.PurchasingDoc}
		out[k]++
	}
	return out
}
