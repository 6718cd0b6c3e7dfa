package inventory

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/nexstock/nexstock-console/internal/gateway"
)

// DefaultDaysAhead is the expiry window used when none is given.
const DefaultDaysAhead = 30

// MaxDaysAhead bounds the expiry window.
const MaxDaysAhead = 365

// ErrInvalidWarehouse is returned when a warehouse id is not positive.
var ErrInvalidWarehouse = errors.New("inventory: invalid warehouse id")

// Service talks to the inventory endpoints.
type Service struct {
	client *gateway.Client
}

// NewService constructs a Service.
func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

// List returns the stock records of one warehouse.
func (s *Service) List(ctx context.Context, warehouseID int64) ([]Record, error) {
	if warehouseID <= 0 {
		return nil, ErrInvalidWarehouse
	}
	var out []Record
	q := url.Values{"warehouseId": {strconv.FormatInt(warehouseID, 10)}}
	if err := s.client.Get(ctx, "/inventory", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Move posts a stock movement in direction op.
func (s *Service) Move(ctx context.Context, op Operation, form StockForm) (Record, error) {
	req, err := form.Request()
	if err != nil {
		return Record{}, err
	}
	var out Record
	err = s.client.Post(ctx, "/inventory/"+string(op), req, &out)
	return out, err
}

// StockIn receives goods.
func (s *Service) StockIn(ctx context.Context, form StockForm) (Record, error) {
	return s.Move(ctx, OperationIn, form)
}

// StockOut issues goods. The backend refuses quantities above what is on hand.
func (s *Service) StockOut(ctx context.Context, form StockForm) (Record, error) {
	return s.Move(ctx, OperationOut, form)
}

// LowStock returns records at or below their minimum level, for one
// warehouse when warehouseID is positive.
func (s *Service) LowStock(ctx context.Context, warehouseID int64) ([]Record, error) {
	var q url.Values
	if warehouseID > 0 {
		q = url.Values{"warehouseId": {strconv.FormatInt(warehouseID, 10)}}
	}
	var out []Record
	if err := s.client.Get(ctx, "/inventory/alerts/low-stock", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Expiring returns records expiring within daysAhead days.
func (s *Service) Expiring(ctx context.Context, daysAhead int) ([]Record, error) {
	var out []Record
	q := url.Values{"daysAhead": {strconv.Itoa(ClampDays(daysAhead))}}
	if err := s.client.Get(ctx, "/inventory/alerts/expiring", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClampDays bounds an expiry window to 1..MaxDaysAhead, using the default
// for anything not positive.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultDaysAhead
	case days > MaxDaysAhead:
		return MaxDaysAhead
	}
	return days
}
