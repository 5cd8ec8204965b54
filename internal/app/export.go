package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSnapshot persists a raw session document, pretty-printed, to
// aurora-session-<id>.json under dir (the working directory when dir is
// empty). The document is written verbatim apart from indentation.
func WriteSnapshot(dir, sessionID string, raw []byte) (string, error) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return "", fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	pretty.WriteByte('\n')

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SnapshotFilename(sessionID))
	if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SnapshotFilename derives the deterministic export name for a session.
func SnapshotFilename(sessionID string) string {
	return fmt.Sprintf("aurora-session-%s.json", sessionID)
}
