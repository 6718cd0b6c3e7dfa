package vendors

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/nexstock/nexstock-console/internal/shared"
)

var validate = validator.New()

var formFields = map[string]string{
	"Name":                "name",
	"ContactPerson":       "contactPerson",
	"Email":               "email",
	"Phone":               "phone",
	"Address":             "address",
	"ContractDetails":     "contractDetails",
	"PaymentTerms":        "paymentTerms",
	"ComplianceDocuments": "complianceDocuments",
}

var maxRating = decimal.NewFromInt(5)

// Validate checks the form and parses the optional rating (0 to 5).
func (f VendorForm) Validate() (decimal.NullDecimal, error) {
	verr := shared.NewValidationError()
	if fields := shared.FieldErrors(shared.FromValidator(validate.Struct(f), formFields)); fields != nil {
		for k, v := range fields {
			verr.Add(k, v)
		}
	}
	var rating decimal.NullDecimal
	if raw := strings.TrimSpace(f.Rating); raw != "" {
		d, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			verr.Add("rating", "Enter a number between 0 and 5")
		case d.IsNegative() || d.GreaterThan(maxRating):
			verr.Add("rating", "Enter a number between 0 and 5")
		default:
			rating = decimal.NullDecimal{Decimal: d.Round(2), Valid: true}
		}
	}
	return rating, verr.OrNil()
}
