package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotFilename(t *testing.T) {
	got := SnapshotFilename("aurora-1730000000000-abc")
	if got != "aurora-session-aurora-1730000000000-abc.json" {
		t.Fatalf("SnapshotFilename = %q", got)
	}
}

func TestWriteSnapshot_PrettyPrints(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSnapshot(dir, "s1", []byte(`{"a":{"b":1}}`))
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("wrote to %s, want %s", filepath.Dir(path), dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n  \"a\": {\n    \"b\": 1\n  }\n}\n"
	if string(data) != want {
		t.Fatalf("content = %q, want %q", data, want)
	}
}

func TestWriteSnapshot_RejectsInvalidJSON(t *testing.T) {
	if _, err := WriteSnapshot(t.TempDir(), "s1", []byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
