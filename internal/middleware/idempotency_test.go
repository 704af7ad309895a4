package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/lemonway/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *atomic.Int32, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	logger := logging.Discard()
	calls := new(atomic.Int32)
	app.Use(Idempotency(cache, time.Minute, logger))
	app.Post("/wallets/:walletId/money-in", func(c *fiber.Ctx) error {
		n := calls.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"hpay": n})
	})
	app.Post("/wallets/:walletId/money-out", func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream"})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, calls, cleanup
}

func post(t *testing.T, app *fiber.App, path, key, body string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(payload), resp.Header.Get(replayedHeader)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app, _, cleanup := setupTestApp(t)
	defer cleanup()

	status, _, _ := post(t, app, "/wallets/w1/money-in", "", "{}")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, status)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	status, payload, replayed := post(t, app, "/wallets/w1/money-in", "abc123", `{"amount_tot":"10.00"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected status %d got %d", fiber.StatusCreated, status)
	}
	if replayed != "" {
		t.Fatalf("first response must not be marked replayed")
	}

	// Second request should return the cached response without invoking handler again.
	status, cachedPayload, replayed := post(t, app, "/wallets/w1/money-in", "abc123", `{"amount_tot":"10.00"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected cached status %d got %d", fiber.StatusCreated, status)
	}
	if cachedPayload != payload {
		t.Fatalf("expected cached payload %s got %s", payload, cachedPayload)
	}
	if replayed != "true" {
		t.Fatalf("expected replay header")
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times", calls.Load())
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(cachedPayload), &decoded); err != nil {
		t.Fatalf("cached payload invalid json: %v", err)
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	app, _, cleanup := setupTestApp(t)
	defer cleanup()

	post(t, app, "/wallets/w1/money-in", "k1", `{"amount_tot":"10.00"}`)
	status, _, _ := post(t, app, "/wallets/w1/money-in", "k1", `{"amount_tot":"99.00"}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected %d got %d", fiber.StatusUnprocessableEntity, status)
	}
}

func TestIdempotencyKeyScopedToPath(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	post(t, app, "/wallets/w1/money-in", "k1", `{}`)
	post(t, app, "/wallets/w2/money-in", "k1", `{}`)
	if calls.Load() != 2 {
		t.Fatalf("expected both wallets to be credited, handler ran %d times", calls.Load())
	}
}

func TestIdempotencyDoesNotKeepServerErrors(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	post(t, app, "/wallets/w1/money-out", "k2", `{}`)
	status, _, replayed := post(t, app, "/wallets/w1/money-out", "k2", `{}`)
	if status != fiber.StatusBadGateway || replayed != "" {
		t.Fatalf("expected a fresh attempt, got status %d replayed %q", status, replayed)
	}
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times", calls.Load())
	}
}
