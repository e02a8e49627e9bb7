package pag

import "github.com/shopspring/decimal"

// Downcount consumes open quantities line by line, in source row order,
// until each group's quantity-to-remove is exhausted. When matchPO is false,
// lines are matched on Material alone and removal keys must carry an empty
// PurchasingDoc. A shortfall (more to remove than the group has open) is
// dropped without error; lines with a negative open quantity are skipped
// untouched.
func (b *OrderBook) Downcount(removals map[Key]decimal.Decimal, matchPO bool) {
	remaining := make(map[Key]decimal.Decimal, len(removals))
	pending := 0
	for k, q := range removals {
		if q.Sign() <= 0 {
			continue
		}
		remaining[k] = q
		pending++
	}

	for i := 0; i < b.Len() && pending > 0; i++ {
		key := b.LineKey(i)
		if !matchPO {
			key.PurchasingDoc = ""
		}
		toRemove, ok := remaining[key]
		if !ok || toRemove.Sign() <= 0 {
			continue
		}
		available := b.QtyRemaining(i)
		if available.Sign() <= 0 {
			continue
		}
		if available.LessThanOrEqual(toRemove) {
			b.setQtyRemaining(i, decimal.Zero)
			toRemove = toRemove.Sub(available)
		} else {
			b.setQtyRemaining(i, available.Sub(toRemove))
			toRemove = decimal.Zero
		}
		remaining[key] = toRemove
		if toRemove.Sign() == 0 {
			delete(remaining, key)
			pending--
		}
	}
}
