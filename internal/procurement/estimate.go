package procurement

import (
	"github.com/shopspring/decimal"

	"github.com/nexstock/nexstock-console/internal/masterdata/products"
)

// CatalogItem is what order creation needs to know about a product.
type CatalogItem struct {
	Name      string
	SKU       string
	VendorID  int64
	UnitPrice decimal.Decimal
}

// Catalog indexes products by id.
type Catalog map[int64]CatalogItem

// NewCatalog builds a Catalog from the product list.
func NewCatalog(items []products.Product) Catalog {
	c := make(Catalog, len(items))
	for _, p := range items {
		c[p.ID] = CatalogItem{Name: p.Name, SKU: p.SKU, VendorID: p.VendorID, UnitPrice: p.UnitPrice}
	}
	return c
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// LineEstimate is the estimated cost of one line.
type LineEstimate struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	Resolved  bool            `json:"resolved"`
}

// Estimate is a client-side approximation of an order total. The backend
// computes the authoritative amount.
type Estimate struct {
	Lines      []LineEstimate  `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Unresolved int             `json:"unresolved"`
}

// Partial reports whether some lines could not be priced.
func (e Estimate) Partial() bool {
	return e.Unresolved > 0
}

// EstimateTotal sums unit price times quantity over items. Lines whose
// product is missing from catalog count as zero and are reported unresolved.
func EstimateTotal(items []LineInput, catalog Catalog) Estimate {
	est := Estimate{Lines: make([]LineEstimate, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		line := LineEstimate{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: decimal.Zero, Total: decimal.Zero}
		if p, ok := catalog[item.ProductID]; ok {
			line.Resolved = true
			line.UnitPrice = p.UnitPrice
			if item.Quantity > 0 {
				line.Total = p.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			}
		} else {
			est.Unresolved++
		}
		est.Total = est.Total.Add(line.Total)
		est.Lines = append(est.Lines, line)
	}
	return est
}
