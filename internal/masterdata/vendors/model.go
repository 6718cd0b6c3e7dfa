package vendors

import (
	"github.com/shopspring/decimal"

	"github.com/nexstock/nexstock-console/internal/shared"
)

// Vendor is a supplier record owned by the backend.
type Vendor struct {
	ID                  int64               `json:"id"`
	Name                string              `json:"name"`
	ContactPerson       string              `json:"contactPerson"`
	Email               string              `json:"email"`
	Phone               string              `json:"phone"`
	Address             string              `json:"address"`
	OrganizationID      int64               `json:"organizationId"`
	ContractDetails     string              `json:"contractDetails"`
	PaymentTerms        string              `json:"paymentTerms"`
	ComplianceDocuments string              `json:"complianceDocuments"`
	Rating              decimal.NullDecimal `json:"rating"`
	Active              *bool               `json:"active"`
	CreatedAt           shared.Timestamp    `json:"createdAt"`
}

// IsActive treats a missing flag as active.
func (v Vendor) IsActive() bool {
	return v.Active == nil || *v.Active
}
