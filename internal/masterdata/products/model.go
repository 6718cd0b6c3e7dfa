package products

import "github.com/shopspring/decimal"

// Product is a catalog item supplied by a vendor.
type Product struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	VendorID    int64           `json:"vendorId"`
	VendorName  string          `json:"vendorName"`
	Category    string          `json:"category"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Active      *bool           `json:"active"`
}

// IsActive treats a missing flag as active.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}
