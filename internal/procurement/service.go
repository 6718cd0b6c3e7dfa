package procurement

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/shared"
)

// ErrInvalidID is returned for non-positive order ids.
var ErrInvalidID = errors.New("procurement: invalid purchase order id")

// CreateOrderInput is a new order request.
type CreateOrderInput struct {
	VendorID             int64        `json:"vendorId"`
	ExpectedDeliveryDate *shared.Date `json:"expectedDeliveryDate,omitempty"`
	Items                []LineInput  `json:"items"`
}

// Backend is the subset of the gateway client the service calls.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

var _ Backend = (*gateway.Client)(nil)

// Service talks to the purchase order endpoints.
type Service struct {
	backend Backend
	now     func() time.Time
}

// NewService constructs a Service.
func NewService(backend Backend) *Service {
	return &Service{backend: backend, now: time.Now}
}

// List returns the organization's purchase orders.
func (s *Service) List(ctx context.Context, orgID int64) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	q := url.Values{"organizationId": {strconv.FormatInt(orgID, 10)}}
	if err := s.backend.Get(ctx, "/purchase-orders", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one purchase order.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, ErrInvalidID
	}
	var out PurchaseOrder
	err := s.backend.Get(ctx, path(id), nil, &out)
	return out, err
}

// Validate checks in before it is sent. When catalog is non-nil every
// product must be listed in it.
func (s *Service) Validate(in CreateOrderInput, catalog Catalog) error {
	verr := shared.NewValidationError()
	if in.VendorID <= 0 {
		verr.Add("vendorId", "Select a vendor")
	}
	if in.ExpectedDeliveryDate != nil {
		y, m, d := s.now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if in.ExpectedDeliveryDate.Before(today) {
			verr.Add("expectedDeliveryDate", "Expected delivery cannot be in the past")
		}
	}
	if len(in.Items) == 0 {
		verr.Add("items", "Add at least one item")
	}
	for i, item := range in.Items {
		switch {
		case item.ProductID <= 0:
			verr.Add(lineField(i, "productId"), "Select a product")
		case catalog != nil:
			if _, ok := catalog[item.ProductID]; !ok {
				verr.Add(lineField(i, "productId"), "Product is not in the catalog")
			}
		}
		if item.Quantity < 1 {
			verr.Add(lineField(i, "quantity"), "Quantity must be at least 1")
		}
	}
	return verr.OrNil()
}

// CreateOrder validates in and creates the order.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput, catalog Catalog) (PurchaseOrder, error) {
	if err := s.Validate(in, catalog); err != nil {
		return PurchaseOrder{}, err
	}
	var out PurchaseOrder
	if err := s.backend.Post(ctx, "/purchase-orders", in, &out); err != nil {
		return PurchaseOrder{}, err
	}
	return out, nil
}

// ApproveOrder approves order id without checking its status first. When the
// backend refuses, the order is fetched again and the fresh copy returned with
// the error so the caller can resync.
func (s *Service) ApproveOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, ErrInvalidID
	}
	var out PurchaseOrder
	err := s.backend.Put(ctx, path(id)+"/approve", nil, &out)
	if err == nil {
		return out, nil
	}
	fresh, getErr := s.Get(ctx, id)
	if getErr != nil {
		return PurchaseOrder{}, err
	}
	return fresh, err
}

func path(id int64) string {
	return "/purchase-orders/" + strconv.FormatInt(id, 10)
}
