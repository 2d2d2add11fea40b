package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct       = errors.New("invalid product id")
	ErrQuantityBelowMinimum = errors.New("quantity must be at least 1")
)

const (
	MsgLoginRequired = "Please log in to view your cart."
	MsgEmpty         = "Your cart is empty!"
	MsgEmptyView     = "Your cart is empty."
)

// Item is one cart line as reported by the backend.
type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is for display only; the cart total always comes from the backend.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Items      []Item          `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// ClampQuantity applies the quantity selector's lower bound.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
