package warehouses

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexstock/nexstock-console/internal/shared"
)

var validate = validator.New()

var formFields = map[string]string{
	"Name":     "name",
	"Location": "location",
	"Capacity": "capacity",
	"ZoneType": "zoneType",
}

// Validate checks the warehouse form and parses the optional capacity.
func (f WarehouseForm) Validate() (*int, error) {
	verr := collect(validate.Struct(f))
	var capacity *int
	if raw := strings.TrimSpace(f.Capacity); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			verr.Add("capacity", "Enter a whole number greater than 0")
		} else {
			capacity = &n
		}
	}
	return capacity, verr.OrNil()
}

// Validate checks the zone form and parses its capacity.
func (f ZoneForm) Validate() (zoneRequest, error) {
	verr := collect(validate.Struct(f))
	req := zoneRequest{Name: strings.TrimSpace(f.Name), ZoneType: f.ZoneType}
	if raw := strings.TrimSpace(f.Capacity); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			verr.Add("capacity", "Enter a whole number greater than 0")
		}
		req.Capacity = n
	}
	return req, verr.OrNil()
}

func collect(err error) *shared.ValidationError {
	verr := shared.NewValidationError()
	for k, v := range shared.FieldErrors(shared.FromValidator(err, formFields)) {
		verr.Add(k, v)
	}
	return verr
}
