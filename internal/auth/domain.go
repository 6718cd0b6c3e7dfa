package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexstock/nexstock-console/internal/shared"
)

// Role is the backend user role. It only drives navigation visibility.
type Role string

// Known roles.
const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleCompanyAdmin   Role = "COMPANY_ADMIN"
	RoleOpsManager     Role = "OPS_MANAGER"
	RoleWarehouseStaff Role = "WAREHOUSE_STAFF"
	RoleVendor         Role = "VENDOR"
	RoleUnknown        Role = "UNKNOWN"
)

// Roles lists every known role except RoleUnknown.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleCompanyAdmin, RoleOpsManager, RoleWarehouseStaff, RoleVendor}
}

// ParseRole maps a backend role string onto the closed set.
func ParseRole(raw string) Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUPER_ADMIN":
		return RoleSuperAdmin
	case "COMPANY_ADMIN":
		return RoleCompanyAdmin
	case "OPS_MANAGER", "MANAGER":
		return RoleOpsManager
	case "WAREHOUSE_STAFF":
		return RoleWarehouseStaff
	case "VENDOR":
		return RoleVendor
	}
	return RoleUnknown
}

// IsAdmin reports whether the role administers an organization.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleCompanyAdmin
}

// User is the persisted profile of the signed-in operator.
type User struct {
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	OrganizationID int64  `json:"organizationId"`
}

// Credentials is a successful login.
type Credentials struct {
	Token string
	User  User
}

// RegistrationInput creates an organization together with its first admin.
type RegistrationInput struct {
	OrganizationName string `validate:"required,max=100"`
	AdminName        string `validate:"required,max=100"`
	Email            string `validate:"required,email"`
	Password         string `validate:"required,min=8"`
	ContactPhone     string `validate:"omitempty,max=30"`
	Address          string `validate:"omitempty,max=255"`
}

var validate = validator.New()

// Validate checks the input locally and returns a *shared.ValidationError keyed
// by form field name.
func (in RegistrationInput) Validate() error {
	return shared.FromValidator(validate.Struct(in), registrationFields)
}

var registrationFields = map[string]string{
	"OrganizationName": "organizationName",
	"AdminName":        "adminName",
	"Email":            "email",
	"Password":         "password",
	"ContactPhone":     "contactPhone",
	"Address":          "address",
}

// splitName turns a full name into the first/last pair the backend requires.
// A single word is used for both.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	}
	return parts[0], strings.Join(parts[1:], " ")
}
