package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestRestyAdapterWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Resty(logger).Warnf("retry %d of %s", 2, "RegisterWallet")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "retry 2 of RegisterWallet" {
		t.Fatalf("unexpected message %v", entry["msg"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("unexpected level %v", entry["level"])
	}
	if entry[ServiceKey] != "resty" {
		t.Fatalf("expected service attribute, got %v", entry[ServiceKey])
	}
}

func TestRestyAdapterKeepsPercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Resty(logger).Errorf("100% failed")

	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"100% failed"`)) {
		t.Fatalf("unexpected output %s", buf.String())
	}
}

func TestChildOfNilDiscards(t *testing.T) {
	logger := Child(nil, "lemonway")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("expected discard logger to be above debug")
	}
	logger.Error("dropped")
}
