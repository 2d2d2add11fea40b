package shipment

import (
	"context"
	"strings"

	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/order"
)

const trackingBaseURL = "https://shiprocket.co/tracking/"

// Shipment is a courier shipment as reported by Shiprocket.
type Shipment struct {
	ID             order.Ref `json:"id"`
	ChannelOrderID order.Ref `json:"channelOrderId"`
	Status         string    `json:"status"`
	CustomerName   string    `json:"customerName"`
	CourierName    string    `json:"courier_name"`
	AWBCode        string    `json:"awb_code"`
	Amount         order.Ref `json:"amount"`
	ETD            string    `json:"etd"`
}

// TrackingURL is empty until a courier assigns an AWB.
func (s Shipment) TrackingURL() string {
	awb := strings.TrimSpace(s.AWBCode)
	if awb == "" {
		return ""
	}
	return trackingBaseURL + awb
}

type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

type listResponse struct {
	Data []Shipment `json:"data"`
}

// List returns live shipments; the payload is nested under "data".
func (s *Service) List(ctx context.Context) ([]Shipment, error) {
	var out listResponse
	if err := s.api.Get(ctx, "/shiprocket/shipments", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []Shipment{}, nil
	}
	return out.Data, nil
}

// Card is one shipment as shown on the admin shipments tab.
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
	Customer    string `json:"customer"`
	Courier     string `json:"courier"`
	AWB         string `json:"awb"`
	Amount      string `json:"amount"`
	ETD         string `json:"etd"`
	TrackingURL string `json:"trackingUrl,omitempty"`
}

func Cards(items []Shipment) []Card {
	out := make([]Card, 0, len(items))
	for _, s := range items {
		status := or(s.Status, "Unknown")
		out = append(out, Card{
			ID:          string(s.ID),
			Title:       "Order #" + or(string(s.ChannelOrderID), "N/A"),
			Status:      status,
			StatusClass: "status-" + strings.Join(strings.Fields(strings.ToLower(status)), "-"),
			Customer:    or(s.CustomerName, "N/A"),
			Courier:     or(s.CourierName, "Not Assigned"),
			AWB:         or(s.AWBCode, "Not Assigned"),
			Amount:      "₹" + or(string(s.Amount), "0.00"),
			ETD:         or(s.ETD, "N/A"),
			TrackingURL: s.TrackingURL(),
		})
	}
	return out
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
