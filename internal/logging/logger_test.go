package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vanshika/dronepath/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("route rejected", "start", "A")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above warn level, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["msg"] != "route rejected" || entry["start"] != "A" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, config.LoggingConfig{Level: "debug"}).Debug("snapshot loaded", "nodes", 6)

	if !strings.Contains(buf.String(), "msg=\"snapshot loaded\"") || !strings.Contains(buf.String(), "nodes=6") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestNewColored(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Colored: true})
	logger.Debug("hidden")
	logger.Info("starting http server", "addr", ":8080")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "starting http server") {
		t.Fatalf("unexpected colored output %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		" error ": "ERROR",
		"":        "INFO",
		"verbose": "INFO",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
