package pag

import (
	"errors"
	"time"

	"PagRecon/internal/tabular"

	"github.com/shopspring/decimal"
)

// ShipmentRecord is one row of the shipment/receipt log. SlipDate comes from
// the first 8 characters of the packing-slip code (YYYYMMDD) and is the zero
// time when that prefix does not parse.
type ShipmentRecord struct {
	Material      string
	PurchasingDoc string
	Quantity      decimal.Decimal
	SlipDate      time.Time
}

// ShipmentLog is the parsed shipment file. HasPO reports whether the source
// carried a PO column, which decides the downcount granularity.
type ShipmentLog struct {
	Records []ShipmentRecord
	HasPO   bool
}

// ParseShipmentLog reads the shipment table. Material and the shipped total
// are required; PO and packing slip are optional.
func ParseShipmentLog(t *tabular.Table) (*ShipmentLog, error) {
	matCol, ok := t.Col(tabular.ColMaterial)
	if !ok {
		return nil, errors.New("shipment file is missing the part number column")
	}
	qtyCol, ok := t.Col(tabular.ColShipTotal)
	if !ok {
		return nil, errors.New("shipment file is missing the shipped total column")
	}
	poCol, hasPO := t.Col(tabular.ColPurchasingDoc)
	slipCol, hasSlip := t.Col(tabular.ColPackingSlip)

	log := &ShipmentLog{HasPO: hasPO}
	for i := range t.Rows {
		rec := ShipmentRecord{
			Material: t.Cell(i, matCol),
			Quantity: t.Decimal(i, qtyCol),
		}
		if rec.Material == "" {
			continue
		}
		if hasPO {
			rec.PurchasingDoc = t.Cell(i, poCol)
		}
		if hasSlip {
			rec.SlipDate = slipDate(t.Cell(i, slipCol))
		}
		log.Records = append(log.Records, rec)
	}
	return log, nil
}

func slipDate(code string) time.Time {
	if len(code) < 8 {
		return time.Time{}
	}
	d, err := time.Parse("20060102", code[:8])
	if err != nil {
		return time.Time{}
	}
	return d
}

// Totals sums the absolute shipped quantity per key. Sign flipped back and
// forth across source revisions; reconciling always removes the magnitude.
func (l *ShipmentLog) Totals(matchPO bool) map[Key]decimal.Decimal {
	out := make(map[Key]decimal.Decimal)
	for _, rec := range l.Records {
		k := Key{Material: rec.Material}
		if matchPO {
			k.PurchasingDoc = rec.PurchasingDoc
		}
		out[k] = out[k].Add(rec.Quantity.Abs())
	}
	return out
}

// LatestSlipDates returns the newest slip date per (Material, PO). Keys
// without any parsable slip date are absent from the result.
func (l *ShipmentLog) LatestSlipDates() map[Key]time.Time {
	out := make(map[Key]time.Time)
	for _, rec := range l.Records {
		if rec.SlipDate.IsZero() {
			continue
		}
		k := Key{Material: rec.Material, PurchasingDoc: rec.PurchasingDoc}
		if cur, ok := out[k]; !ok || rec.SlipDate.After(cur) {
			out[k] = rec.SlipDate
		}
	}
	return out
}
