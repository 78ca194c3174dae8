package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vibeline/internal/config"
	"vibeline/internal/logging"
	"vibeline/internal/services"
)

func TestConsoleLineShape(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.NewComponentLogger(logger, "queue").Info("request accepted", logging.RequestID("abc"), logging.String("note", "two words"))

	line := buf.String()
	if !strings.Contains(line, " INFO queue: request accepted") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, "request_id=abc") || !strings.Contains(line, `note="two words"`) {
		t.Fatalf("expected fields in %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer writer: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level: %q", line)
	}
}

func TestConsoleFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.WithGroup("bid").Info("ranked", logging.String("currency", "USDT"))
	if !strings.Contains(buf.String(), "bid.currency=USDT") {
		t.Fatalf("expected dotted group key, got %q", buf.String())
	}
}

func TestAutoFormatPicksJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "auto", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", logging.Int("count", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "hello" || record["level"] != "info" || record["ts"] == nil {
		t.Fatalf("unexpected JSON record %v", record)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigTeesJSONToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = config.LogFormatConsole
	logPath := filepath.Join(t.TempDir(), "logs", "vibelined.log")

	logger, err := logging.NewFromConfig(&cfg, logPath)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("daemon started", logging.String(logging.FieldComponent, "daemon"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("expected JSON in log file, got %q: %v", content, err)
	}
	if record["component"] != "daemon" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestWarnWithContextFillsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WarnWithContext(logger, "shoutout failed", "shoutout_fallback", logging.String(logging.FieldImpact, "template used"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["event_type"] != "shoutout_fallback" || record["impact"] != "template used" || record["error_hint"] == nil {
		t.Fatalf("unexpected record %v", record)
	}

	buf.Reset()
	logging.ErrorWithContext(logger, "store write failed", "store_write", logging.Event("override"))
	record = nil
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["level"] != "error" || record["event_type"] != "override" {
		t.Fatalf("unexpected error record %v", record)
	}
	if _, ok := record["impact"]; ok {
		t.Fatalf("error records carry no default impact: %v", record)
	}
}

func TestWithContextAddsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := services.WithRequestID(context.Background(), "req-1")
	ctx = services.WithCorrelationID(ctx, "corr-1")
	logging.WithContext(ctx, logger).Info("transition")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["request_id"] != "req-1" || record["correlation_id"] != "corr-1" {
		t.Fatalf("unexpected record %v", record)
	}
	if logging.WithContext(context.Background(), logger) != logger {
		t.Fatal("expected logger unchanged without context fields")
	}
}
