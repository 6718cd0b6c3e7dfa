package products

import (
	"context"
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

// List returns the whole catalog. The backend does not scope products by
// organization.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.client.Get(ctx, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrInvalidID
	}
	var out Product
	err := s.client.Get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	price, err := form.Validate()
	if err != nil {
		return Product{}, err
	}
	var out Product
	err = s.client.Post(ctx, "/products", form.request(price), &out)
	return out, err
}
