package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session identifies one continuous analyzed conversation. The identity
// is immutable for its lifetime; a new session means a whole new value.
type Session struct {
	ID        string
	TurnCount int
	Finalized bool
	StartedAt time.Time
}

func NewSession() *Session {
	return &Session{
		ID:        NewSessionID(),
		StartedAt: time.Now(),
	}
}

// NewSessionID builds a handle unique in practice: millisecond epoch
// prefix plus a random suffix.
func NewSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("aurora-%d-%s", time.Now().UnixMilli(), suffix)
}

// ShortID trims a session handle for display.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "..."
}
