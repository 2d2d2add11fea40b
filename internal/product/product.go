package product

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidID = errors.New("invalid product id")

// Product mirrors the backend product record.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CategoryID  int64           `json:"categoryId"`
}

// InStock reports whether at least one unit can be ordered.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Form is the product editor input. Numeric fields arrive as strings, the
// way a form submits them.
type Form struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
	Stock       string `json:"stock" form:"stock"`
	ImageURL    string `json:"imageUrl" form:"imageUrl"`
	CategoryID  string `json:"categoryId" form:"categoryId"`
}

// FormOf fills the editor with an existing product.
func FormOf(p Product) Form {
	return Form{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.Stock),
		ImageURL:    p.ImageURL,
		CategoryID:  strconv.FormatInt(p.CategoryID, 10),
	}
}

// FieldErrors collects per-field validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for _, k := range []string{"name", "description", "imageUrl", "price", "stock", "categoryId"} {
		if msg, ok := e[k]; ok {
			keys = append(keys, msg)
		}
	}
	return strings.Join(keys, "; ")
}

// Payload parses and validates the form into the body sent to the backend.
func (f Form) Payload() (Product, error) {
	errs := FieldErrors{}
	p := Product{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}
	if p.Name == "" {
		errs["name"] = "name is required"
	}
	if p.Description == "" {
		errs["description"] = "description is required"
	}
	if p.ImageURL == "" {
		errs["imageUrl"] = "image URL is required"
	}

	if raw := strings.TrimSpace(f.Price); raw == "" {
		errs["price"] = "price is required"
	} else if price, err := decimal.NewFromString(raw); err != nil {
		errs["price"] = "price must be a number"
	} else if price.IsNegative() {
		errs["price"] = "price must be >= 0"
	} else {
		p.Price = price
	}

	if raw := strings.TrimSpace(f.Stock); raw == "" {
		errs["stock"] = "stock is required"
	} else if stock, err := strconv.Atoi(raw); err != nil {
		errs["stock"] = "stock must be a whole number"
	} else if stock < 0 {
		errs["stock"] = "stock must be >= 0"
	} else {
		p.Stock = stock
	}

	if raw := strings.TrimSpace(f.CategoryID); raw == "" {
		errs["categoryId"] = "category is required"
	} else if id, err := strconv.ParseInt(raw, 10, 64); err != nil || id <= 0 {
		errs["categoryId"] = "invalid category"
	} else {
		p.CategoryID = id
	}

	if len(errs) > 0 {
		return Product{}, errs
	}
	return p, nil
}
