package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNumberRequired = errors.New("order number is required")
	ErrAddressIncomplete   = errors.New("all address fields are required")
)

const (
	MsgOrderNumberRequired = "Please enter your order number."
	MsgTrackFailed         = "Unable to fetch order details. Please check your order number."
	MsgNoOrders            = "You have not placed any orders yet."
)

// Status is the backend order status. The console never changes it.
type Status string

const (
	StatusAll       Status = "ALL"
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Badge is the lowercase status class used by the order tables.
func (s Status) Badge() string {
	return strings.ToLower(string(s))
}

// Address is the shipping address collected at checkout.
type Address struct {
	RecipientName string `json:"recipientName" form:"recipientName"`
	Street        string `json:"street" form:"street"`
	City          string `json:"city" form:"city"`
	State         string `json:"state" form:"state"`
	PostalCode    string `json:"postalCode" form:"postalCode"`
	Country       string `json:"country" form:"country"`
	PhoneNumber   string `json:"phoneNumber" form:"phoneNumber"`
}

// Normalize trims every field and fails when any is left empty.
func (a Address) Normalize() (Address, error) {
	out := Address{
		RecipientName: strings.TrimSpace(a.RecipientName),
		Street:        strings.TrimSpace(a.Street),
		City:          strings.TrimSpace(a.City),
		State:         strings.TrimSpace(a.State),
		PostalCode:    strings.TrimSpace(a.PostalCode),
		Country:       strings.TrimSpace(a.Country),
		PhoneNumber:   strings.TrimSpace(a.PhoneNumber),
	}
	for _, v := range []string{out.RecipientName, out.Street, out.City, out.State, out.PostalCode, out.Country, out.PhoneNumber} {
		if v == "" {
			return Address{}, ErrAddressIncomplete
		}
	}
	return out, nil
}

// Line renders the address the way the admin table shows it.
func (a Address) Line() string {
	return a.Street + ", " + a.City + ", " + a.State + " - " + a.PostalCode
}

type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type Order struct {
	ID                    int64           `json:"id"`
	TotalPrice            decimal.Decimal `json:"totalPrice"`
	Status                Status          `json:"status"`
	OrderDate             Timestamp       `json:"orderDate"`
	Items                 []Item          `json:"items"`
	ShippingAddress       *Address        `json:"shippingAddress,omitempty"`
	ShiprocketTrackingURL string          `json:"shiprocketTrackingUrl,omitempty"`
}

// Tracking is the public tracking lookup result.
type Tracking struct {
	OrderNumber Ref    `json:"orderNumber"`
	Status      string `json:"status"`
	TrackingURL string `json:"trackingUrl,omitempty"`
	AWB         string `json:"awb,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Ref accepts identifiers sent either as JSON strings or numbers.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp keeps the backend's date text and its parsed value when the
// text is in a known layout.
type Timestamp struct {
	Raw  string
	Time time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// epoch millis
		var ms int64
		if err2 := json.Unmarshal(b, &ms); err2 != nil {
			return err
		}
		t.Raw = string(b)
		t.Time = time.UnixMilli(ms)
		return nil
	}
	t.Raw = s
	t.Time = time.Time{}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			break
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw)
}

// Format renders the date for display, falling back to the raw text.
func (t Timestamp) Format() string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format("02 Jan 2006, 15:04")
}
