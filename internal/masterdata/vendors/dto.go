package vendors

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VendorForm is the create/edit form.
type VendorForm struct {
	Name                string `validate:"required,max=150"`
	ContactPerson       string `validate:"omitempty,max=100"`
	Email               string `validate:"omitempty,email"`
	Phone               string `validate:"omitempty,max=30"`
	Address             string `validate:"omitempty,max=255"`
	ContractDetails     string `validate:"omitempty,max=2000"`
	PaymentTerms        string `validate:"omitempty,max=100"`
	ComplianceDocuments string `validate:"omitempty,max=2000"`
	Rating              string
	Active              bool
}

type vendorRequest struct {
	Name                string              `json:"name"`
	ContactPerson       string              `json:"contactPerson,omitempty"`
	Email               string              `json:"email,omitempty"`
	Phone               string              `json:"phone,omitempty"`
	Address             string              `json:"address,omitempty"`
	OrganizationID      int64               `json:"organizationId"`
	ContractDetails     string              `json:"contractDetails,omitempty"`
	PaymentTerms        string              `json:"paymentTerms,omitempty"`
	ComplianceDocuments string              `json:"complianceDocuments,omitempty"`
	Rating              decimal.NullDecimal `json:"rating"`
	Active              bool                `json:"active"`
}

// FormFromVendor prefills the edit form.
func FormFromVendor(v Vendor) VendorForm {
	form := VendorForm{
		Name:                v.Name,
		ContactPerson:       v.ContactPerson,
		Email:               v.Email,
		Phone:               v.Phone,
		Address:             v.Address,
		ContractDetails:     v.ContractDetails,
		PaymentTerms:        v.PaymentTerms,
		ComplianceDocuments: v.ComplianceDocuments,
		Active:              v.IsActive(),
	}
	if v.Rating.Valid {
		form.Rating = v.Rating.Decimal.String()
	}
	return form
}

func (f VendorForm) request(orgID int64, rating decimal.NullDecimal) vendorRequest {
	return vendorRequest{
		Name:                strings.TrimSpace(f.Name),
		ContactPerson:       strings.TrimSpace(f.ContactPerson),
		Email:               strings.TrimSpace(f.Email),
		Phone:               strings.TrimSpace(f.Phone),
		Address:             strings.TrimSpace(f.Address),
		OrganizationID:      orgID,
		ContractDetails:     strings.TrimSpace(f.ContractDetails),
		PaymentTerms:        strings.TrimSpace(f.PaymentTerms),
		ComplianceDocuments: strings.TrimSpace(f.ComplianceDocuments),
		Rating:              rating,
		Active:              f.Active,
	}
}
