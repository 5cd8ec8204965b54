package app

import (
	"strings"
	"testing"
)

func TestNewSessionID_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := NewSessionID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate session id after %d generations: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewSessionID_Format(t *testing.T) {
	id := NewSessionID()
	if !strings.HasPrefix(id, "aurora-") {
		t.Fatalf("session id missing prefix: %s", id)
	}
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		t.Fatalf("session id missing timestamp or suffix: %s", id)
	}
}

func TestNewSession_StartsFresh(t *testing.T) {
	s := NewSession()
	if s.TurnCount != 0 {
		t.Fatalf("TurnCount = %d, want 0", s.TurnCount)
	}
	if s.Finalized {
		t.Fatal("new session already finalized")
	}
	if s.ID == "" {
		t.Fatal("new session has empty id")
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abc"); got != "abc" {
		t.Fatalf("ShortID(short) = %q", got)
	}
	long := "aurora-1730000000000-abcdef123"
	got := ShortID(long)
	if got != long[:12]+"..." {
		t.Fatalf("ShortID(long) = %q", got)
	}
}
