package inventory

import (
	"strings"

	"github.com/nexstock/nexstock-console/internal/shared"
)

// Operation is a stock movement direction.
type Operation string

const (
	// OperationIn receives goods into a warehouse.
	OperationIn Operation = "stock-in"
	// OperationOut issues goods from a warehouse.
	OperationOut Operation = "stock-out"
)

// Title is the page title of the operation.
func (o Operation) Title() string {
	if o == OperationOut {
		return "Stock out"
	}
	return "Stock in"
}

// Verb describes the operation in flash messages.
func (o Operation) Verb() string {
	if o == OperationOut {
		return "issued"
	}
	return "received"
}

// Record is the stock of one product batch in a warehouse zone.
type Record struct {
	ID             int64            `json:"id"`
	ProductID      int64            `json:"productId"`
	ProductName    string           `json:"productName"`
	ProductSKU     string           `json:"productSku"`
	WarehouseID    int64            `json:"warehouseId"`
	WarehouseName  string           `json:"warehouseName"`
	ZoneID         *int64           `json:"zoneId"`
	ZoneName       string           `json:"zoneName"`
	Quantity       int              `json:"quantity"`
	BatchNumber    string           `json:"batchNumber"`
	ExpiryDate     shared.Date      `json:"expiryDate"`
	MinStockLevel  *int             `json:"minStockLevel"`
	MaxStockLevel  *int             `json:"maxStockLevel"`
	LastUpdated    shared.Timestamp `json:"lastUpdated"`
	IsLowStock     bool             `json:"isLowStock"`
	IsExpiringSoon bool             `json:"isExpiringSoon"`
}

// Low reports whether the record is at or below its minimum level. The
// backend flag wins when set.
func (r Record) Low() bool {
	if r.IsLowStock {
		return true
	}
	return r.MinStockLevel != nil && r.Quantity <= *r.MinStockLevel
}

// Matches reports whether the record contains the search text.
func (r Record) Matches(search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range []string{r.ProductName, r.ProductSKU, r.BatchNumber, r.ZoneName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
