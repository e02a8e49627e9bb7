package report

import (
	"sort"

	"PagRecon/internal/pag"

	"github.com/shopspring/decimal"
)

// DeltaReport is the pivoted comparison of two snapshots: one row per
// (Material, PO), one column per month, sorted ascending.
type DeltaReport struct {
	Months []string
	Rows   []DeltaRow
}

// DeltaRow holds New−Old per month for one (Material, PO).
type DeltaRow struct {
	Key   pag.Key
	Delta map[string]decimal.Decimal
}

// BuildDelta outer-joins the two monthly summaries on (Material, PO, Month),
// treating a missing side as zero, and pivots the difference into month
// columns.
func BuildDelta(newQty, oldQty map[pag.MonthKey]decimal.Decimal) *DeltaReport {
	monthSet := make(map[string]bool)
	rowIndex := make(map[pag.Key]*DeltaRow)

	join := func(mk pag.MonthKey) *DeltaRow {
		monthSet[mk.Month] = true
		row, ok := rowIndex[mk.Key]
		if !ok {
			row = &DeltaRow{Key: mk.Key, Delta: make(map[string]decimal.Decimal)}
			rowIndex[mk.Key] = row
		}
		return row
	}
	for mk, q := range newQty {
		row := join(mk)
		row.Delta[mk.Month] = row.Delta[mk.Month].Add(q)
	}
	for mk, q := range oldQty {
		row := join(mk)
		row.Delta[mk.Month] = row.Delta[mk.Month].Sub(q)
	}

	rep := &DeltaReport{}
	for m := range monthSet {
		rep.Months = append(rep.Months, m)
	}
	sort.Strings(rep.Months)

	for _, row := range rowIndex {
		rep.Rows = append(rep.Rows, *row)
	}
	sort.Slice(rep.Rows, func(i, j int) bool {
		a, b := rep.Rows[i].Key, rep.Rows[j].Key
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		return a.PurchasingDoc < b.PurchasingDoc
	})
	return rep
}

// DeltaAt returns the delta for a row and month, zero when the cell has no
// movement.
func (r DeltaRow) DeltaAt(month string) decimal.Decimal {
	return r.Delta[month]
}

// CumulativeRow returns the left-to-right running sum of a row's deltas
// across the report's month columns.
func (rep *DeltaReport) CumulativeRow(row DeltaRow) []decimal.Decimal {
	out := make([]decimal.Decimal, len(rep.Months))
	running := decimal.Zero
	for i, m := range rep.Months {
		running = running.Add(row.DeltaAt(m))
		out[i] = running
	}
	return out
}

// RevenueRow returns Delta × UnitPrice per month column, zero when the key
// has no price.
func (rep *DeltaReport) RevenueRow(row DeltaRow, prices pag.PriceLookup) []decimal.Decimal {
	price := prices.Get(row.Key)
	out := make([]decimal.Decimal, len(rep.Months))
	for i, m := range rep.Months {
		out[i] = row.DeltaAt(m).Mul(price)
	}
	return out
}
