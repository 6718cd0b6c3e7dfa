package inventory

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexstock/nexstock-console/internal/shared"
)

var validate = validator.New()

var formFields = map[string]string{
	"ProductID":   "productId",
	"WarehouseID": "warehouseId",
	"Quantity":    "quantity",
	"BatchNumber": "batchNumber",
	"Notes":       "notes",
}

// StockForm is the stock-in or stock-out form as submitted.
type StockForm struct {
	ProductID   string `validate:"required"`
	WarehouseID string `validate:"required"`
	ZoneID      string
	Quantity    string `validate:"required"`
	BatchNumber string `validate:"max=64"`
	ExpiryDate  string
	Notes       string `validate:"max=500"`
}

// StockRequest is the body of a stock movement.
type StockRequest struct {
	ProductID   int64        `json:"productId"`
	WarehouseID int64        `json:"warehouseId"`
	ZoneID      *int64       `json:"zoneId,omitempty"`
	Quantity    int          `json:"quantity"`
	BatchNumber string       `json:"batchNumber,omitempty"`
	ExpiryDate  *shared.Date `json:"expiryDate,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// ParseStockForm reads a StockForm from posted values.
func ParseStockForm(values url.Values) StockForm {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	return StockForm{
		ProductID:   get("productId"),
		WarehouseID: get("warehouseId"),
		ZoneID:      get("zoneId"),
		Quantity:    get("quantity"),
		BatchNumber: get("batchNumber"),
		ExpiryDate:  get("expiryDate"),
		Notes:       get("notes"),
	}
}

// Request validates the form and converts it into a StockRequest.
func (f StockForm) Request() (StockRequest, error) {
	verr := shared.NewValidationError()
	for k, v := range shared.FieldErrors(shared.FromValidator(validate.Struct(f), formFields)) {
		verr.Add(k, v)
	}
	req := StockRequest{BatchNumber: f.BatchNumber, Notes: f.Notes}
	if f.ProductID != "" {
		id, err := strconv.ParseInt(f.ProductID, 10, 64)
		if err != nil || id <= 0 {
			verr.Add("productId", "Select a product")
		}
		req.ProductID = id
	}
	if f.WarehouseID != "" {
		id, err := strconv.ParseInt(f.WarehouseID, 10, 64)
		if err != nil || id <= 0 {
			verr.Add("warehouseId", "Select a warehouse")
		}
		req.WarehouseID = id
	}
	if f.ZoneID != "" {
		id, err := strconv.ParseInt(f.ZoneID, 10, 64)
		if err != nil || id <= 0 {
			verr.Add("zoneId", "Select a zone")
		} else {
			req.ZoneID = &id
		}
	}
	if f.Quantity != "" {
		qty, err := strconv.Atoi(f.Quantity)
		if err != nil || qty <= 0 {
			verr.Add("quantity", "Quantity must be positive")
		}
		req.Quantity = qty
	}
	if f.ExpiryDate != "" {
		d, err := shared.ParseDate(f.ExpiryDate)
		if err != nil {
			verr.Add("expiryDate", "Enter a valid date")
		} else {
			req.ExpiryDate = &d
		}
	}
	return req, verr.OrNil()
}

// WarehouseSelected reports whether id is the chosen warehouse.
func (f StockForm) WarehouseSelected(id int64) bool {
	return f.WarehouseID == strconv.FormatInt(id, 10)
}

// ProductSelected reports whether id is the chosen product.
func (f StockForm) ProductSelected(id int64) bool {
	return f.ProductID == strconv.FormatInt(id, 10)
}

// ZoneSelected reports whether id is the chosen zone.
func (f StockForm) ZoneSelected(id int64) bool {
	return f.ZoneID == strconv.FormatInt(id, 10)
}
