package warehouses

import (
	"encoding/json"

	"github.com/nexstock/nexstock-console/internal/shared"
)

// ZoneType classifies a storage zone.
type ZoneType string

const (
	ZoneGeneral     ZoneType = "GENERAL"
	ZoneColdStorage ZoneType = "COLD_STORAGE"
	ZoneHazmat      ZoneType = "HAZMAT"
	ZoneReceiving   ZoneType = "RECEIVING"
	ZoneShipping    ZoneType = "SHIPPING"
	ZoneQuarantine  ZoneType = "QUARANTINE"
)

// ZoneTypes lists every zone type in display order.
func ZoneTypes() []ZoneType {
	return []ZoneType{ZoneGeneral, ZoneColdStorage, ZoneHazmat, ZoneReceiving, ZoneShipping, ZoneQuarantine}
}

// StorageZone is an area inside a warehouse.
type StorageZone struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	WarehouseID           int64    `json:"warehouseId"`
	Capacity              int      `json:"capacity"`
	CurrentUtilization    int      `json:"currentUtilization"`
	ZoneType              ZoneType `json:"zoneType"`
	UtilizationPercentage *float64 `json:"utilizationPercentage"`
}

// Fill returns the zone's utilization, preferring the backend's percentage.
func (z StorageZone) Fill() Utilization {
	u := Utilization{Used: z.CurrentUtilization, Capacity: z.Capacity}
	switch {
	case z.UtilizationPercentage != nil:
		u.Percent, u.Known = *z.UtilizationPercentage, true
	case z.Capacity > 0:
		u.Percent, u.Known = float64(z.CurrentUtilization)*100/float64(z.Capacity), true
	}
	return u
}

// Warehouse is a physical site of the organization.
type Warehouse struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Location         string           `json:"location"`
	Capacity         int              `json:"capacity"`
	OrganizationID   int64            `json:"organizationId"`
	OrganizationName string           `json:"organizationName"`
	ManagerID        *int64           `json:"managerId"`
	ManagerName      string           `json:"managerName"`
	Active           *bool            `json:"active"`
	CreatedAt        shared.Timestamp `json:"createdAt"`
	Zones            []StorageZone    `json:"zones"`
}

// UnmarshalJSON accepts the zone list under either "zones" or "storageZones".
func (w *Warehouse) UnmarshalJSON(data []byte) error {
	type plain Warehouse
	var raw struct {
		plain
		StorageZones []StorageZone `json:"storageZones"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Warehouse(raw.plain)
	if len(w.Zones) == 0 && len(raw.StorageZones) > 0 {
		w.Zones = raw.StorageZones
	}
	return nil
}

// IsActive treats a missing flag as active.
func (w Warehouse) IsActive() bool {
	return w.Active == nil || *w.Active
}

// Utilization is the fill level of a warehouse summed over its zones.
type Utilization struct {
	Used     int
	Capacity int
	Percent  float64
	Known    bool
}

// Utilization sums zone usage against zone capacity. A warehouse without
// zones or with zero zone capacity has no known utilization.
func (w Warehouse) Utilization() Utilization {
	var u Utilization
	for _, z := range w.Zones {
		u.Used += z.CurrentUtilization
		u.Capacity += z.Capacity
	}
	if u.Capacity > 0 {
		u.Percent = float64(u.Used) * 100 / float64(u.Capacity)
		u.Known = true
	}
	return u
}
