package products

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductForm is the create form as submitted.
type ProductForm struct {
	SKU         string `validate:"required,max=64"`
	Name        string `validate:"required,max=150"`
	Description string `validate:"omitempty,max=2000"`
	VendorID    int64
	Category    string `validate:"omitempty,max=100"`
	UnitPrice   string
}

type productRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	VendorID    int64           `json:"vendorId"`
	Category    string          `json:"category,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func (f ProductForm) request(price decimal.Decimal) productRequest {
	return productRequest{
		SKU:         strings.ToUpper(strings.TrimSpace(f.SKU)),
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		VendorID:    f.VendorID,
		Category:    strings.TrimSpace(f.Category),
		UnitPrice:   price,
	}
}
