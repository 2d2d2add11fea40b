package product

import (
	"context"
	"net/url"
	"strconv"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.list(ctx, nil)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	return s.list(ctx, url.Values{"categoryId": {strconv.FormatInt(categoryID, 10)}})
}

func (s *Service) list(ctx context.Context, q url.Values) ([]Product, error) {
	var items []Product
	if err := s.api.Get(ctx, "/products", q, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []Product{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, ErrInvalidID
	}
	var p Product
	if err := s.api.Get(ctx, path(id), nil, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, f Form) (Product, error) {
	payload, err := f.Payload()
	if err != nil {
		return Product{}, err
	}
	var created Product
	if err := s.api.Post(ctx, "/products", nil, payload, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, f Form) (Product, error) {
	if id <= 0 {
		return Product{}, ErrInvalidID
	}
	payload, err := f.Payload()
	if err != nil {
		return Product{}, err
	}
	var updated Product
	if err := s.api.Put(ctx, path(id), nil, payload, &updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return s.api.Delete(ctx, path(id), nil, nil)
}

func path(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}
