package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", &TransportError{Op: "send", Err: errors.New("refused")}, true},
		{"protocol", &ProtocolError{Op: "session", StatusCode: 503}, true},
		{"wrapped transport", fmt.Errorf("submit: %w", &TransportError{Op: "send", Err: errors.New("refused")}), true},
		{"validation", &ValidationError{Field: "message", Reason: "empty"}, false},
		{"stale session", ErrStaleSession, false},
		{"superseded fetch", ErrSupersededFetch, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Fatalf("%s: IsTransient = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{Op: "health", Err: inner}

	if !errors.Is(err, inner) {
		t.Fatalf("expected wrapped error to surface through errors.Is")
	}
	if !strings.Contains(err.Error(), "health") {
		t.Fatalf("expected operation in message, got %q", err.Error())
	}
}

func TestProtocolError_Message(t *testing.T) {
	err := &ProtocolError{Op: "send", StatusCode: 401}
	if got := err.Error(); !strings.Contains(got, "401") || !strings.Contains(got, "send") {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf)

	log.Info("turn submitted", map[string]interface{}{"session": "aurora-1-abc"})
	log.Error("send failed", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}

	var evt LogEvent
	if err := json.Unmarshal([]byte(lines[0]), &evt); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if evt.Level != "info" || evt.Message != "turn submitted" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.Fields["session"] != "aurora-1-abc" {
		t.Fatalf("missing field, got %+v", evt.Fields)
	}

	if err := json.Unmarshal([]byte(lines[1]), &evt); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}
	if evt.Level != "error" {
		t.Fatalf("level = %q, want error", evt.Level)
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var log *Logger
	log.Info("ignored", nil) // must not panic

	empty := NewLogger(nil)
	empty.Warn("also ignored", nil)
}
