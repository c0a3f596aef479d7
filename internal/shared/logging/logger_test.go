package logging

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		" WARN ":   slog.LevelWarn,
		"err":      slog.LevelError,
		"trace":    slog.LevelDebug - 2,
		"":         slog.LevelInfo,
		"whatever": slog.LevelInfo,
	}
	for input, expected := range cases {
		if got := ParseLevel(input); got != expected {
			t.Fatalf("ParseLevel(%q) expected %v got %v", input, expected, got)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "info", Format: "json"})
	logger.Debug("hidden")
	logger.Info("visible", slog.String("reservationId", "42"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered: %s", out)
	}
	if !strings.Contains(out, `"reservationId":"42"`) {
		t.Fatalf("expected json attribute, got %s", out)
	}
}

func TestNewRotatingFileDefaults(t *testing.T) {
	writer := NewRotatingFile(FileConfig{})
	if writer.Filename != filepath.Join("./logs", "hotel-web.log") {
		t.Fatalf("unexpected filename %s", writer.Filename)
	}
	if writer.MaxSize != 50 {
		t.Fatalf("expected default max size 50, got %d", writer.MaxSize)
	}
}
