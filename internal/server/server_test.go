package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/lemonway/internal/config"
	"github.com/congo-pay/lemonway/internal/logging"
	"github.com/congo-pay/lemonway/lemonway"
)

func TestErrorsRenderAsJSON(t *testing.T) {
	client, err := lemonway.New(lemonway.WhiteLabel, lemonway.Config{
		BaseURL: "http://127.0.0.1:1",
		Defaults: lemonway.Attributes{
			"wlLogin": "test", "wlPass": "test", "wlPDV": "test",
			"version": "1.0", "language": "fr", "channel": "W", "walletIp": "127.0.0.1",
		},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	cfg := config.Config{AppName: "test", AppEnv: "development", Port: "0"}
	cfg.LemonWay.Timeout = time.Second
	srv, err := New(cfg, nil, client, logging.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodPost, "/api/v1/operations/close_wallet", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected %d got %d", http.StatusNotFound, resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "unknown operation" {
		t.Fatalf("unexpected body %v", body)
	}
}
