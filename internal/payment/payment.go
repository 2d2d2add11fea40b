package payment

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrder       = errors.New("invalid order id")
	ErrIncompleteCallback = errors.New("payment callback is missing order id, payment id or signature")
)

// Session is the gateway order created for one local order.
type Session struct {
	Key      string          `json:"key"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	OrderID  string          `json:"orderId"`
}

// Completion is what the hosted widget reports after a successful payment.
type Completion struct {
	GatewayOrderID string `json:"razorpay_order_id" form:"razorpay_order_id"`
	PaymentID      string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	Signature      string `json:"razorpay_signature" form:"razorpay_signature"`
}

func (c Completion) Validate() error {
	if strings.TrimSpace(c.GatewayOrderID) == "" ||
		strings.TrimSpace(c.PaymentID) == "" ||
		strings.TrimSpace(c.Signature) == "" {
		return ErrIncompleteCallback
	}
	return nil
}

// Failure is what the widget reports when a payment attempt fails.
type Failure struct {
	Code        string `json:"code" form:"code"`
	Description string `json:"description" form:"description"`
	Reason      string `json:"reason" form:"reason"`
	OrderID     string `json:"order_id,omitempty" form:"order_id"`
}

// Verification is the backend's answer to a signature check.
type Verification struct {
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	TrackingURL string `json:"trackingUrl,omitempty"`
	AWB         string `json:"awb,omitempty"`
}

// Theme is the widget colour scheme.
type Theme struct {
	Color string `json:"color"`
}

// WidgetOptions is handed to the hosted payment widget.
type WidgetOptions struct {
	Key         string          `json:"key"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
	CallbackURL string          `json:"callback_url"`
	FailureURL  string          `json:"failure_url"`
	Theme       Theme           `json:"theme"`
}

// Options builds the widget options for s.
func (s Session) Options(merchant, callbackURL, failureURL string) WidgetOptions {
	return WidgetOptions{
		Key:         s.Key,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Name:        merchant,
		Description: "Secure Payment",
		OrderID:     s.OrderID,
		CallbackURL: callbackURL,
		FailureURL:  failureURL,
		Theme:       Theme{Color: "#528FF0"},
	}
}
