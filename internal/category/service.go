package category

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

// Service provides category operations against the backend.
type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	var items []Category
	if err := s.api.Get(ctx, "/categories", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []Category{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, ErrInvalidID
	}
	var c Category
	if err := s.api.Get(ctx, path(id), nil, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, f Form) (Category, error) {
	payload, err := f.Payload()
	if err != nil {
		return Category{}, err
	}
	var created Category
	if err := s.api.Post(ctx, "/categories", nil, payload, &created); err != nil {
		return Category{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, f Form) (Category, error) {
	if id <= 0 {
		return Category{}, ErrInvalidID
	}
	payload, err := f.Payload()
	if err != nil {
		return Category{}, err
	}
	var updated Category
	if err := s.api.Put(ctx, path(id), nil, payload, &updated); err != nil {
		return Category{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.api.Delete(ctx, path(id), nil, nil); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func path(id int64) string {
	return "/categories/" + strconv.FormatInt(id, 10)
}
