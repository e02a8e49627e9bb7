package pag

import (
	"errors"
	"fmt"
	"time"

	"PagRecon/internal/tabular"

	"github.com/shopspring/decimal"
)

// Key identifies an order-line group. PurchasingDoc is empty when grouping
// by material only.
type Key struct {
	Material      string
	PurchasingDoc string
}

func (k Key) String() string {
	if k.PurchasingDoc == "" {
		return k.Material
	}
	return k.Material + "/" + k.PurchasingDoc
}

// OrderBook wraps a parsed PAG table. Lines keep their source row order;
// downcounting mutates quantities in place so the full original sheet can be
// written back out with only the open quantities changed.
type OrderBook struct {
	Table *tabular.Table

	matCol     int
	poCol      int
	qtyCol     int
	statRelCol int // -1 when the sheet has no Stat-Rel date column
}

// NewOrderBook validates the required PAG columns and indexes them.
func NewOrderBook(t *tabular.Table) (*OrderBook, error) {
	matCol, ok := t.Col(tabular.ColMaterial)
	if !ok {
		return nil, errors.New("PAG file is missing the Material column")
	}
	poCol, ok := t.Col(tabular.ColPurchasingDoc)
	if !ok {
		return nil, errors.New("PAG file is missing the Purchasing Document / PO Number column")
	}
	qtyCol, ok := t.Col(tabular.ColQtyRemaining)
	if !ok {
		return nil, errors.New("PAG file is missing the Qty remaining to deliver column")
	}
	b := &OrderBook{Table: t, matCol: matCol, poCol: poCol, qtyCol: qtyCol, statRelCol: -1}
	if col, ok := t.ColContaining("stat", "rel"); ok {
		b.statRelCol = col
	}
	return b, nil
}

// Len returns the number of order lines.
func (b *OrderBook) Len() int {
	return len(b.Table.Rows)
}

// LineKey returns the (Material, PO) key of row i.
func (b *OrderBook) LineKey(i int) Key {
	return Key{
		Material:      b.Table.Cell(i, b.matCol),
		PurchasingDoc: b.Table.Cell(i, b.poCol),
	}
}

// QtyRemaining returns the open quantity of row i, zero when not numeric.
func (b *OrderBook) QtyRemaining(i int) decimal.Decimal {
	return b.Table.Decimal(i, b.qtyCol)
}

func (b *OrderBook) setQtyRemaining(i int, q decimal.Decimal) {
	b.Table.SetCell(i, b.qtyCol, q.String())
}

// StatRelDate returns the Stat-Rel delivery date of row i, zero time when
// the column is absent or the cell does not parse.
func (b *OrderBook) StatRelDate(i int) time.Time {
	if b.statRelCol < 0 {
		return time.Time{}
	}
	return tabular.CoerceDate(b.Table.Cell(i, b.statRelCol))
}

// HasStatRelColumn reports whether a Stat-Rel-date-like column was found.
func (b *OrderBook) HasStatRelColumn() bool {
	return b.statRelCol >= 0
}

// MonthlyOpenQty sums QtyRemaining per (Material, PO, YYYY-MM of Stat-Rel
// date). Lines without a parsable date are excluded. Errors when the sheet
// carries no Stat-Rel column at all.
func (b *OrderBook) MonthlyOpenQty() (map[MonthKey]decimal.Decimal, error) {
	if b.statRelCol < 0 {
		return nil, errors.New("no Stat-Rel Delivery Date column found")
	}
	out := make(map[MonthKey]decimal.Decimal)
	for i := 0; i < b.Len(); i++ {
		d := b.StatRelDate(i)
		if d.IsZero() {
			continue
		}
		mk := MonthKey{Key: b.LineKey(i), Month: d.Format("2006-01")}
		out[mk] = out[mk].Add(b.QtyRemaining(i))
	}
	return out, nil
}

// MonthKey extends Key with a YYYY-MM period.
type MonthKey struct {
	Key
	Month string
}

func (mk MonthKey) String() string {
	return fmt.Sprintf("%s@%s", mk.Key, mk.Month)
}
