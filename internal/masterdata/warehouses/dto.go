package warehouses

import (
	"strconv"
	"strings"
)

// WarehouseForm is the create/edit form as submitted.
type WarehouseForm struct {
	Name     string `validate:"required,max=100"`
	Location string `validate:"required,max=255"`
	Capacity string
	Active   bool
}

// ZoneForm is the add-zone form on the warehouse page.
type ZoneForm struct {
	Name     string   `validate:"required,max=100"`
	Capacity string   `validate:"required"`
	ZoneType ZoneType `validate:"required,oneof=GENERAL COLD_STORAGE HAZMAT RECEIVING SHIPPING QUARANTINE"`
}

type warehouseRequest struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Capacity       *int   `json:"capacity,omitempty"`
	OrganizationID int64  `json:"organizationId"`
	Active         bool   `json:"active"`
}

type zoneRequest struct {
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	ZoneType ZoneType `json:"zoneType"`
}

// FormFromWarehouse prefills the edit form.
func FormFromWarehouse(w Warehouse) WarehouseForm {
	form := WarehouseForm{Name: w.Name, Location: w.Location, Active: w.IsActive()}
	if w.Capacity > 0 {
		form.Capacity = strconv.Itoa(w.Capacity)
	}
	return form
}

func (f WarehouseForm) request(orgID int64, capacity *int) warehouseRequest {
	return warehouseRequest{
		Name:           strings.TrimSpace(f.Name),
		Location:       strings.TrimSpace(f.Location),
		Capacity:       capacity,
		OrganizationID: orgID,
		Active:         f.Active,
	}
}
