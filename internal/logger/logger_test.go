package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	// Test with text format
	cfg := Config{
		Level:  "info",
		Format: "text",
	}
	logger := New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// Test with json format
	cfg.Format = "json"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// Test with debug level
	cfg.Level = "debug"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// Test with invalid level (should default to info)
	cfg.Level = "invalid"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}
}

func TestWithComponent(t *testing.T) {
	logger := Default()
	componentLogger := logger.WithComponent("test-component")

	if componentLogger == nil {
		t.Error("Expected component logger to not be nil")
	}

	// Test chaining
	componentLogger2 := componentLogger.WithComponent("nested-component")
	if componentLogger2 == nil {
		t.Error("Expected nested component logger to not be nil")
	}
}

func TestWithProvider(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "json", Output: &buf})
	logger.WithProvider("spotify").Info("searched")

	if !strings.Contains(buf.String(), `"provider":"spotify"`) {
		t.Errorf("Expected provider attribute in output, got %s", buf.String())
	}
}

func TestWithSearch(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "text", Output: &buf})
	logger.WithSearch("abc-123", "rainy night").Debug("started")

	out := buf.String()
	if !strings.Contains(out, "search_id=abc-123") {
		t.Errorf("Expected search_id attribute in output, got %s", out)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("Expected discard logger to not be nil")
	}
	logger.Error("dropped")
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Error("Expected default logger to not be nil")
	}
}

func TestLogLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	for _, level := range levels {
		cfg := Config{
			Level:  level,
			Format: "text",
		}
		logger := New(cfg)
		if logger == nil {
			t.Errorf("Expected logger to not be nil for level %s", level)
		}
	}
}

func TestLogFormats(t *testing.T) {
	formats := []string{"text", "json"}

	for _, format := range formats {
		cfg := Config{
			Level:  "info",
			Format: format,
		}
		logger := New(cfg)
		if logger == nil {
			t.Errorf("Expected logger to not be nil for format %s", format)
		}
	}
}
