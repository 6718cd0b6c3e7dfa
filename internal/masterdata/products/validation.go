package products

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/nexstock/nexstock-console/internal/shared"
)

var validate = validator.New()

var formFields = map[string]string{
	"SKU":         "sku",
	"Name":        "name",
	"Description": "description",
	"Category":    "category",
}

// Validate checks the form and parses the unit price, which must be a
// non-negative amount with at most two decimals.
func (f ProductForm) Validate() (decimal.Decimal, error) {
	verr := shared.NewValidationError()
	for k, v := range shared.FieldErrors(shared.FromValidator(validate.Struct(f), formFields)) {
		verr.Add(k, v)
	}
	if f.VendorID <= 0 {
		verr.Add("vendorId", "Select a vendor")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.UnitPrice))
	switch {
	case strings.TrimSpace(f.UnitPrice) == "":
		verr.Add("unitPrice", "Unit price is required")
	case err != nil || price.IsNegative():
		verr.Add("unitPrice", "Enter a price of 0 or more")
	case !price.Equal(price.Round(2)):
		verr.Add("unitPrice", "Use at most two decimals")
	}
	return price, verr.OrNil()
}
