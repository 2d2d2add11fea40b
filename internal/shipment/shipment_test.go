package shipment

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-console/internal/apiclient/apitest"
)

func TestService_List(t *testing.T) {
	backend := apitest.NewBackend(t, func(app *fiber.App) {
		app.Get("/shiprocket/shipments", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(`{"data":[
				{"id": 9001, "channelOrderId": "55", "status": "IN TRANSIT", "customerName": "Asha", "courier_name": "Delhivery", "awb_code": "AWB1", "amount": 420.5, "etd": "2024-06-05"},
				{"id": 9002}
			]}`)
		})
	})

	items, err := NewService(backend.Client("tok")).List(context.Background())
	if err != nil || len(items) != 2 {
		t.Fatalf("unexpected shipments %+v (%v)", items, err)
	}

	cards := Cards(items)
	first := cards[0]
	if first.Title != "Order #55" || first.StatusClass != "status-in-transit" || first.Amount != "₹420.5" {
		t.Fatalf("unexpected card %+v", first)
	}
	if first.TrackingURL != "https://shiprocket.co/tracking/AWB1" {
		t.Fatalf("unexpected tracking url %q", first.TrackingURL)
	}

	second := cards[1]
	if second.Title != "Order #N/A" || second.Status != "Unknown" || second.Courier != "Not Assigned" ||
		second.AWB != "Not Assigned" || second.Amount != "₹0.00" || second.ETD != "N/A" || second.Customer != "N/A" {
		t.Fatalf("unexpected fallbacks %+v", second)
	}
	if second.TrackingURL != "" {
		t.Fatalf("tracking link must be absent without an AWB")
	}
}

func TestService_ListEmpty(t *testing.T) {
	backend := apitest.NewBackend(t, func(app *fiber.App) {
		app.Get("/shiprocket/shipments", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{})
		})
	})
	items, err := NewService(backend.Client("tok")).List(context.Background())
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %+v (%v)", items, err)
	}
}
