package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/lemonway/lemonway"
)

func TestRequestIDReachesUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		if RequestIDFrom(c) != lemonway.RequestID(c.UserContext()) {
			return fiber.NewError(fiber.StatusInternalServerError, "request id mismatch")
		}
		return c.SendString(lemonway.RequestID(c.UserContext()))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != "req-42" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") != "req-42" {
		t.Fatalf("request id not echoed")
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if len(body) == 0 || resp.Header.Get("X-Request-ID") != string(body) {
		t.Fatalf("generated id %q not propagated, header %q", body, resp.Header.Get("X-Request-ID"))
	}
}
