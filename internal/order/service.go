package order

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

// Place creates an order from the current cart for the given address.
func (s *Service) Place(ctx context.Context, addr Address) (Order, error) {
	addr, err := addr.Normalize()
	if err != nil {
		return Order{}, err
	}
	var o Order
	if err := s.api.Post(ctx, "/orders/place", nil, addr, &o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	orders, err := s.list(ctx, "/orders")
	if err != nil {
		return nil, err
	}
	SortNewestFirst(orders)
	return orders, nil
}

// ListMine returns the signed-in user's orders in backend order.
func (s *Service) ListMine(ctx context.Context) ([]Order, error) {
	return s.list(ctx, "/orders/my")
}

func (s *Service) list(ctx context.Context, path string) ([]Order, error) {
	var orders []Order
	if err := s.api.Get(ctx, path, nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// Track looks an order up by number without credentials.
func (s *Service) Track(ctx context.Context, orderNumber string) (Tracking, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return Tracking{}, ErrOrderNumberRequired
	}
	var t Tracking
	if err := s.api.GetPublic(ctx, "/orders/track/"+url.PathEscape(orderNumber), nil, &t); err != nil {
		return Tracking{}, err
	}
	return t, nil
}

// SortNewestFirst orders by order date, newest first. Orders with
// unparseable dates keep their relative position at the end.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i].OrderDate.Time, orders[j].OrderDate.Time
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}
