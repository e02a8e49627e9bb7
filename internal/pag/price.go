package pag

import "github.com/shopspring/decimal"

// PriceLookup maps (Material, PO) to a unit price, deduplicated keep-last:
// when a part is re-quoted later in the source the newer price wins.
type PriceLookup map[Key]decimal.Decimal

// Put records a price, overwriting any earlier entry for the key.
func (p PriceLookup) Put(k Key, price decimal.Decimal) {
	p[k] = price
}

// Get returns the unit price for a key, zero when absent.
func (p PriceLookup) Get(k Key) decimal.Decimal {
	if price, ok := p[k]; ok {
		return price
	}
	return decimal.Zero
}
