package cart

import (
	"context"
	"net/url"
	"strconv"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

// Service mirrors the backend cart. Every mutation returns the cart as the
// backend now sees it.
type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

func (s *Service) Get(ctx context.Context) (Cart, error) {
	var c Cart
	if err := s.api.Get(ctx, "/cart", nil, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) Add(ctx context.Context, productID int64, quantity int) (Cart, error) {
	if productID <= 0 {
		return Cart{}, ErrInvalidProduct
	}
	if quantity < 1 {
		return Cart{}, ErrQuantityBelowMinimum
	}
	var c Cart
	if err := s.api.Post(ctx, "/cart/add", itemQuery(productID, quantity), nil, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of a line. Quantities below one are
// rejected without calling the backend; removal goes through Remove.
func (s *Service) UpdateQuantity(ctx context.Context, productID int64, quantity int) (Cart, error) {
	if productID <= 0 {
		return Cart{}, ErrInvalidProduct
	}
	if quantity < 1 {
		return Cart{}, ErrQuantityBelowMinimum
	}
	var c Cart
	if err := s.api.Put(ctx, "/cart/update", itemQuery(productID, quantity), nil, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, productID int64) (Cart, error) {
	if productID <= 0 {
		return Cart{}, ErrInvalidProduct
	}
	var c Cart
	q := url.Values{"productId": {strconv.FormatInt(productID, 10)}}
	if err := s.api.Delete(ctx, "/cart/remove", q, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func itemQuery(productID int64, quantity int) url.Values {
	return url.Values{
		"productId": {strconv.FormatInt(productID, 10)},
		"quantity":  {strconv.Itoa(quantity)},
	}
}
