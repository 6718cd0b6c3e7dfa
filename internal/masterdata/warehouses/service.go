package warehouses

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/masterdata/shared"
)

type Service struct {
	client *gateway.Client
}

func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

// List returns the organization's warehouses.
func (s *Service) List(ctx context.Context, orgID int64) ([]Warehouse, error) {
	var out []Warehouse
	q := url.Values{"organizationId": {strconv.FormatInt(orgID, 10)}}
	if err := s.client.Get(ctx, "/warehouses", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	var out Warehouse
	err := s.client.Get(ctx, path(id), nil, &out)
	return out, err
}

func (s *Service) Create(ctx context.Context, orgID int64, form WarehouseForm) (Warehouse, error) {
	capacity, err := form.Validate()
	if err != nil {
		return Warehouse{}, err
	}
	var out Warehouse
	err = s.client.Post(ctx, "/warehouses", form.request(orgID, capacity), &out)
	return out, err
}

func (s *Service) Update(ctx context.Context, id, orgID int64, form WarehouseForm) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	capacity, err := form.Validate()
	if err != nil {
		return Warehouse{}, err
	}
	var out Warehouse
	err = s.client.Put(ctx, path(id), form.request(orgID, capacity), &out)
	return out, err
}

// AddZone creates a storage zone inside warehouse id.
func (s *Service) AddZone(ctx context.Context, id int64, form ZoneForm) (StorageZone, error) {
	if id <= 0 {
		return StorageZone{}, shared.ErrInvalidID
	}
	req, err := form.Validate()
	if err != nil {
		return StorageZone{}, err
	}
	var out StorageZone
	err = s.client.Post(ctx, path(id)+"/zones", req, &out)
	return out, err
}

// Zones returns the zones of warehouse id.
func (s *Service) Zones(ctx context.Context, id int64) ([]StorageZone, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.Zones, nil
}

func path(id int64) string {
	return "/warehouses/" + strconv.FormatInt(id, 10)
}
