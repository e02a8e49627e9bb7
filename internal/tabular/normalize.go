package tabular

// Canonical column keys. Source files from the procurement side, the
// shipment log and the EBU workbook each spell these differently; handlers
// look columns up by canonical key and the alias sets absorb the variants.
const (
	ColMaterial      = "Material"
	ColPurchasingDoc = "Purchasing Document"
	ColQtyRemaining  = "Qty remaining to deliver"
	ColShipTotal     = "Total général"
	ColPackingSlip   = "Packing Slip"
	ColShipDate      = "Ship Date"
	ColQuantity      = "Quantity"
	ColUnitPrice     = "Unit Price"
)

var columnAliases = map[string][]string{
	ColMaterial:      {ColMaterial, "Part #", "(a)P/N&S/N", "Part Number", "P/N"},
	ColPurchasingDoc: {ColPurchasingDoc, "PO Number", "Purch.Doc.", "PO", "PO #"},
	ColQtyRemaining:  {ColQtyRemaining, "Qty Remaining", "Open Qty"},
	ColShipTotal:     {ColShipTotal, "Total general", "Grand Total", "Total"},
	ColPackingSlip:   {ColPackingSlip, "Packing Slip #", "Packing slip"},
	ColShipDate:      {ColShipDate, "Shipping Date", "Shipped On"},
	ColQuantity:      {ColQuantity, "Qty", "Ship Qty", "Shipped Qty"},
	ColUnitPrice:     {ColUnitPrice, "Unit Price USD", "Price", "Net Price"},
}

func aliasesFor(canonical string) []string {
	if al, ok := columnAliases[canonical]; ok {
		return al
	}
	return []string{canonical}
}
