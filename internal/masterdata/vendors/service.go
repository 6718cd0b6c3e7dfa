package vendors

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

// List returns every vendor of the organization.
func (s *Service) List(ctx context.Context, orgID int64) ([]Vendor, error) {
	var out []Vendor
	q := url.Values{"organizationId": {strconv.FormatInt(orgID, 10)}}
	if err := s.client.Get(ctx, "/vendors", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, shared.ErrInvalidID
	}
	var out Vendor
	err := s.client.Get(ctx, "/vendors/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

func (s *Service) Create(ctx context.Context, orgID int64, form VendorForm) (Vendor, error) {
	rating, err := form.Validate()
	if err != nil {
		return Vendor{}, err
	}
	var out Vendor
	err = s.client.Post(ctx, "/vendors", form.request(orgID, rating), &out)
	return out, err
}

func (s *Service) Update(ctx context.Context, id, orgID int64, form VendorForm) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, shared.ErrInvalidID
	}
	rating, err := form.Validate()
	if err != nil {
		return Vendor{}, err
	}
	var out Vendor
	err = s.client.Put(ctx, "/vendors/"+strconv.FormatInt(id, 10), form.request(orgID, rating), &out)
	return out, err
}
