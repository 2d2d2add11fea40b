package order

import (
	"github.com/wichananm65/storefront-console/internal/view"
)

// Row is one line of the admin orders table.
type Row struct {
	Index    int    `json:"index"`
	ID       int64  `json:"id"`
	Customer string `json:"customer"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Items    int    `json:"items"`
	Total    string `json:"total"`
	Status   Status `json:"status"`
	Badge    string `json:"badge"`
	Date     string `json:"date"`
}

func Rows(orders []Order) []Row {
	rows := make([]Row, 0, len(orders))
	for i, o := range orders {
		r := Row{
			Index:  i + 1,
			ID:     o.ID,
			Items:  len(o.Items),
			Total:  view.Rupees(o.TotalPrice),
			Status: o.Status,
			Badge:  o.Status.Badge(),
			Date:   o.OrderDate.Format(),
		}
		if a := o.ShippingAddress; a != nil {
			r.Customer = a.RecipientName
			r.Phone = a.PhoneNumber
			r.Address = a.Line()
		}
		rows = append(rows, r)
	}
	return rows
}

// Card is one entry on the "my orders" page.
type Card struct {
	ID          int64  `json:"id"`
	Status      Status `json:"status"`
	Badge       string `json:"badge"`
	Date        string `json:"date"`
	Total       string `json:"total"`
	Items       int    `json:"items"`
	TrackingURL string `json:"trackingUrl,omitempty"`
}

func Cards(orders []Order) []Card {
	cards := make([]Card, 0, len(orders))
	for _, o := range orders {
		cards = append(cards, Card{
			ID:          o.ID,
			Status:      o.Status,
			Badge:       o.Status.Badge(),
			Date:        o.OrderDate.Format(),
			Total:       view.Rupees(o.TotalPrice),
			Items:       len(o.Items),
			TrackingURL: o.ShiprocketTrackingURL,
		})
	}
	return cards
}
