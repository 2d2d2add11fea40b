package category

import (
	"errors"
	"strings"
)

type LayoutType string

const (
	LayoutSquare LayoutType = "SQUARE"
	LayoutWide   LayoutType = "WIDE"
)

var (
	ErrInvalidID           = errors.New("invalid category id")
	ErrNameRequired        = errors.New("name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidLayout       = errors.New("layout type must be SQUARE or WIDE")
)

// Category mirrors the backend category record.
type Category struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	BannerImageURL string     `json:"bannerImageUrl,omitempty"`
	LayoutType     LayoutType `json:"layoutType,omitempty"`
}

// Layout is the card layout used on the home page. Anything but WIDE renders square.
func (c Category) Layout() LayoutType {
	if strings.EqualFold(string(c.LayoutType), string(LayoutWide)) {
		return LayoutWide
	}
	return LayoutSquare
}

// HasBanner reports whether the category page shows a banner image.
func (c Category) HasBanner() bool {
	return strings.TrimSpace(c.BannerImageURL) != ""
}

// Form is the category editor input as collected from the admin console.
type Form struct {
	Name           string `json:"name" form:"name"`
	Description    string `json:"description" form:"description"`
	ImageURL       string `json:"imageUrl" form:"imageUrl"`
	BannerImageURL string `json:"bannerImageUrl" form:"bannerImageUrl"`
	LayoutType     string `json:"layoutType" form:"layoutType"`
}

// FormOf fills the editor with an existing category.
func FormOf(c Category) Form {
	return Form{
		Name:           c.Name,
		Description:    c.Description,
		ImageURL:       c.ImageURL,
		BannerImageURL: c.BannerImageURL,
		LayoutType:     string(c.Layout()),
	}
}

// Payload validates the form and returns the body sent to the backend.
func (f Form) Payload() (Category, error) {
	c := Category{
		Name:           strings.TrimSpace(f.Name),
		Description:    strings.TrimSpace(f.Description),
		ImageURL:       strings.TrimSpace(f.ImageURL),
		BannerImageURL: strings.TrimSpace(f.BannerImageURL),
	}
	if c.Name == "" {
		return Category{}, ErrNameRequired
	}
	if c.Description == "" {
		return Category{}, ErrDescriptionRequired
	}
	switch LayoutType(strings.ToUpper(strings.TrimSpace(f.LayoutType))) {
	case "", LayoutSquare:
		c.LayoutType = LayoutSquare
	case LayoutWide:
		c.LayoutType = LayoutWide
	default:
		return Category{}, ErrInvalidLayout
	}
	return c, nil
}
