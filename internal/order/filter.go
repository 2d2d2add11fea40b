package order

import (
	"strconv"
	"strings"
)

// Filter is the admin order list's status filter and search box.
type Filter struct {
	Status Status
	Query  string
}

// Apply returns the matching orders in their original order. The input slice
// is never modified.
func (f Filter) Apply(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	query := ""
	if strings.TrimSpace(f.Query) != "" {
		query = strings.ToLower(f.Query)
	}
	for _, o := range orders {
		if f.Status != "" && f.Status != StatusAll && o.Status != f.Status {
			continue
		}
		if query != "" && !matches(o, query) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matches(o Order, query string) bool {
	if addr := o.ShippingAddress; addr != nil {
		if strings.Contains(strings.ToLower(addr.RecipientName), query) ||
			strings.Contains(strings.ToLower(addr.PhoneNumber), query) {
			return true
		}
	}
	return strings.Contains(o.TotalPrice.String(), query) ||
		strings.Contains(strconv.FormatInt(o.ID, 10), query)
}
