package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func do(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

const addressJSON = `{"recipientName":"Asha","street":"1 MG Road","city":"Pune","state":"MH","postalCode":"411001","country":"IN","phoneNumber":"98200"}`

func TestCheckoutRoutes(t *testing.T) {
	payments := &fakePayments{}
	app := fiber.New()
	NewHandler(newFlow(&fakeOrders{}, payments)).RegisterRoutes(app)

	code, body := do(t, app, "GET", "/checkout", "")
	if code != 200 || !strings.Contains(body, `"state":"ADDRESS_ENTRY"`) || !strings.Contains(body, `"step":1`) {
		t.Fatalf("unexpected initial view %d %s", code, body)
	}

	if code, _ := do(t, app, "POST", "/checkout/pay", ""); code != fiber.StatusConflict {
		t.Fatalf("expected conflict paying before confirm, got %d", code)
	}

	code, body = do(t, app, "POST", "/checkout/address", `{"recipientName":"Asha"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete address, got %d %s", code, body)
	}

	code, body = do(t, app, "POST", "/checkout/address", addressJSON)
	if code != 200 || !strings.Contains(body, `"step":2`) || !strings.Contains(body, `"total":"₹420.00"`) {
		t.Fatalf("unexpected confirm view %d %s", code, body)
	}

	code, body = do(t, app, "POST", "/checkout/pay", "")
	if code != 200 {
		t.Fatalf("pay: %d %s", code, body)
	}
	var paid struct {
		Widget struct {
			OrderID     string `json:"order_id"`
			Name        string `json:"name"`
			CallbackURL string `json:"callback_url"`
		} `json:"widget"`
	}
	if err := json.Unmarshal([]byte(body), &paid); err != nil || paid.Widget.OrderID != "order_gw" || paid.Widget.Name != "Jolkhabar" {
		t.Fatalf("unexpected widget options %s (%v)", body, err)
	}

	code, body = do(t, app, "POST", "/checkout/payment/failed", `{"code":"BAD_REQUEST_ERROR"}`)
	if code != 200 || !strings.Contains(body, MsgPaymentFailed) || !strings.Contains(body, `"state":"ORDER_CONFIRM"`) {
		t.Fatalf("unexpected failure view %d %s", code, body)
	}

	if code, _ := do(t, app, "POST", "/checkout/pay", ""); code != 200 {
		t.Fatalf("retry pay: %d", code)
	}
	payments.verifyErr = errors.New("bad signature")
	code, body = do(t, app, "POST", "/checkout/payment/callback",
		`{"razorpay_order_id":"order_gw","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`)
	if code != fiber.StatusBadRequest || !strings.Contains(body, MsgVerificationFailed) {
		t.Fatalf("expected verification alert, got %d %s", code, body)
	}

	payments.verifyErr = nil
	if code, _ := do(t, app, "POST", "/checkout/pay", ""); code != 200 {
		t.Fatalf("second retry pay: %d", code)
	}
	code, body = do(t, app, "POST", "/checkout/payment/callback",
		`{"razorpay_order_id":"order_gw","razorpay_payment_id":"pay_2","razorpay_signature":"sig"}`)
	if code != 200 || !strings.Contains(body, `"step":3`) || strings.Contains(body, "trackingUrl") {
		t.Fatalf("expected success without tracking link, got %d %s", code, body)
	}

	code, body = do(t, app, "GET", "/checkout", "")
	if code != 200 || !strings.Contains(body, `"state":"ADDRESS_ENTRY"`) || strings.Contains(body, "Asha") {
		t.Fatalf("visiting after success should start a new checkout, got %d %s", code, body)
	}
	code, body = do(t, app, "POST", "/checkout/address", addressJSON)
	if code != 200 || !strings.Contains(body, `"state":"ORDER_CONFIRM"`) {
		t.Fatalf("second purchase should place a new order, got %d %s", code, body)
	}

	code, body = do(t, app, "POST", "/checkout/reset", "")
	if code != 200 || !strings.Contains(body, `"state":"ADDRESS_ENTRY"`) {
		t.Fatalf("unexpected reset view %d %s", code, body)
	}
}
