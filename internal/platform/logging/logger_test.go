package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestNew_JSONWritesKeyValueFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(FormatJSON, LevelInfo, &buf)
	logger.Warn("match dropped", "match_id", "abc123", "error", errors.New("incomplete record"))
	logger.Debug("hidden below level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got=%d (%q)", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "match dropped" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["match_id"] != "abc123" {
		t.Fatalf("unexpected match_id: %v", entry["match_id"])
	}
	if entry["error"] != "incomplete record" {
		t.Fatalf("unexpected error field: %v", entry["error"])
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARNING": LevelWarn,
		" error ": LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%s, want %s", raw, got, want)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("does not panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected non-nil logger from nil receiver")
	}
}
