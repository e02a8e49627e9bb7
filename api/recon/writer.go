package recon

import (
	"sort"

	"PagRecon/internal/config"
	"PagRecon/internal/ebu"
	"PagRecon/internal/pag"
	"PagRecon/internal/tabular"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// normalizeDateColumns rewrites every column whose non-empty cells all parse
// as dates into the output date format, mirroring how the tracker renders
// its date columns.
func normalizeDateColumns(t *tabular.Table) {
	for col := range t.Headers {
		nonEmpty := 0
		allDates := true
		for row := range t.Rows {
			cell := t.Cell(row, col)
			if cell == "" {
				continue
			}
			nonEmpty++
			if tabular.CoerceDate(cell).IsZero() {
				allDates = false
				break
			}
		}
		if !allDates || nonEmpty == 0 {
			continue
		}
		for row := range t.Rows {
			cell := t.Cell(row, col)
			if cell == "" {
				continue
			}
			t.SetCell(row, col, tabular.CoerceDate(cell).Format(config.OutputDateFormat))
		}
	}
}

func sortKeys(keys []pag.Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Material != keys[j].Material {
			return keys[i].Material < keys[j].Material
		}
		return keys[i].PurchasingDoc < keys[j].PurchasingDoc
	})
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, vals []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

// BuildResultWorkbook assembles the response: the reconciled order lines on
// the Updated sheet plus the auxiliary lookup sheets.
func BuildResultWorkbook(book *pag.OrderBook, shipTotals map[pag.Key]decimal.Decimal, ebuData *ebu.Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Updated"); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(book.Table.Headers))
	for i, h := range book.Table.Headers {
		header[i] = h
	}
	if err := writeSheetRow(f, "Updated", 1, header); err != nil {
		f.Close()
		return nil, err
	}
	for i := range book.Table.Rows {
		vals := make([]interface{}, len(book.Table.Headers))
		for j := range vals {
			vals[j] = book.Table.Cell(i, j)
		}
		if err := writeSheetRow(f, "Updated", i+2, vals); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := writeTotalsSheet(f, "Shipment_Totals", shipTotals); err != nil {
		f.Close()
		return nil, err
	}

	if ebuData != nil {
		if err := writeCountsSheet(f, ebuData); err != nil {
			f.Close()
			return nil, err
		}
		if err := writePriceSheet(f, ebuData.Prices); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeTotalsSheet(f *excelize.File, name string, totals map[pag.Key]decimal.Decimal) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeSheetRow(f, name, 1, []interface{}{"Material", "Purchasing Document", "Total Shipped"}); err != nil {
		return err
	}
	keys := make([]pag.Key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sortKeys(keys)
	for i, k := range keys {
		row := []interface{}{k.Material, k.PurchasingDoc, totals[k].String()}
		if err := writeSheetRow(f, name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCountsSheet(f *excelize.File, data *ebu.Data) error {
	const name = "EBU_Counts"
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeSheetRow(f, name, 1, []interface{}{"Material", "Purchasing Document", "Shipment Rows"}); err != nil {
		return err
	}
	counts := data.CountsByKey()
	keys := make([]pag.Key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sortKeys(keys)
	for i, k := range keys {
		if err := writeSheetRow(f, name, i+2, []interface{}{k.Material, k.PurchasingDoc, counts[k]}); err != nil {
			return err
		}
	}
	return nil
}

func writePriceSheet(f *excelize.File, prices pag.PriceLookup) error {
	const name = "Price_Lookup"
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeSheetRow(f, name, 1, []interface{}{"Material", "Purchasing Document", "Unit Price"}); err != nil {
		return err
	}
	keys := make([]pag.Key, 0, len(prices))
	for k := range prices {
		keys = append(keys, k)
	}
	sortKeys(keys)
	for i, k := range keys {
		if err := writeSheetRow(f, name, i+2, []interface{}{k.Material, k.PurchasingDoc, prices[k].String()}); err != nil {
			return err
		}
	}
	return nil
}
