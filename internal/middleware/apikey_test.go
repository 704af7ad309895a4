package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func apiKeyApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	hash := ""
	if secret != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		hash = string(b)
	}
	app := fiber.New()
	app.Use(APIKey(hash))
	app.Get("/who", func(c *fiber.Ctx) error {
		return c.SendString(ClientFrom(c))
	})
	return app
}

func TestAPIKeyRejectsMissingAndWrongKeys(t *testing.T) {
	app := apiKeyApp(t, "s3cret")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/who", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/who", nil)
	req.Header.Set(apiKeyHeader, "guess")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestAPIKeyAcceptsHeaderAndBearer(t *testing.T) {
	app := apiKeyApp(t, "s3cret")

	req := httptest.NewRequest(fiber.MethodGet, "/who", nil)
	req.Header.Set(apiKeyHeader, "s3cret")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodGet, "/who", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
}

func TestAPIKeyDisabledWithoutHash(t *testing.T) {
	app := apiKeyApp(t, "")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/who", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
}
