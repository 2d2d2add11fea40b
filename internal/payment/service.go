package payment

import (
	"context"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

type createOrderRequest struct {
	OrderID int64 `json:"orderId"`
}

// CreateOrder opens a gateway order for the local order.
func (s *Service) CreateOrder(ctx context.Context, orderID int64) (Session, error) {
	if orderID <= 0 {
		return Session{}, ErrInvalidOrder
	}
	var out Session
	if err := s.api.Post(ctx, "/payment/create-order", nil, createOrderRequest{OrderID: orderID}, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

// Verify asks the backend to check the widget's signature.
func (s *Service) Verify(ctx context.Context, c Completion) (Verification, error) {
	if err := c.Validate(); err != nil {
		return Verification{}, err
	}
	var out Verification
	if err := s.api.Post(ctx, "/payment/verify", nil, c, &out); err != nil {
		return Verification{}, err
	}
	return out, nil
}
