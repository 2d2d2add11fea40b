// Package view holds the response helpers shared by the console handlers.
package view

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

// Redirect answers a form submission with a 303 to target.
func Redirect(c *fiber.Ctx, target string) error {
	return c.Redirect(target, fiber.StatusSeeOther)
}

// Status maps err to the status code reported to the console user.
func Status(err error) int {
	switch apiclient.KindOf(err) {
	case apiclient.KindTransport:
		return fiber.StatusBadGateway
	case apiclient.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apiclient.KindValidation:
		if s := apiclient.StatusOf(err); s >= 400 && s < 500 {
			return s
		}
		return fiber.StatusBadRequest
	case apiclient.KindUnexpected:
		return fiber.StatusBadGateway
	}
	return fiber.StatusBadRequest
}

// Message picks the text shown for err. Local validation errors speak for
// themselves; backend failures use the backend message or fallback.
func Message(err error, fallback string) string {
	if apiclient.KindOf(err) == 0 {
		return err.Error()
	}
	return apiclient.MessageOf(err, fallback)
}

// Fail writes {"message": msg} with the status for err. When the failure tore
// down the session the payload also points the user at the login view.
func Fail(c *fiber.Ctx, err error, msg string) error {
	body := fiber.Map{"message": msg}
	if errors.Is(err, apiclient.ErrSessionExpired) {
		body["redirect"] = "/login"
	}
	return c.Status(Status(err)).JSON(body)
}

// BadRequest writes a plain 400 {"message": msg}.
func BadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

// Rupees formats an amount the way the storefront displays prices.
func Rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
