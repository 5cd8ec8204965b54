package app

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sender distinguishes the two parties of a transcript: the counterpart
// being analyzed and the analyzing system's replies.
type Sender int

const (
	SenderCounterpart Sender = iota
	SenderSystem
)

// Wire values are fixed by the remote protocol: the counterpart
// serializes as "scammer" and the system reply as "user".
const (
	wireSenderCounterpart = "scammer"
	wireSenderSystem      = "user"
)

func (s Sender) String() string {
	switch s {
	case SenderCounterpart:
		return wireSenderCounterpart
	case SenderSystem:
		return wireSenderSystem
	}
	return "unknown"
}

func (s Sender) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Sender) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case wireSenderCounterpart:
		*s = SenderCounterpart
	case wireSenderSystem, "system":
		*s = SenderSystem
	default:
		return fmt.Errorf("unknown sender %q", raw)
	}
	return nil
}

// Turn is one message in the transcript. Text is carried verbatim.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptStore is the append-only ordered log of exchanged turns.
// Turns arrive strictly as outbound-then-inbound pairs per completed
// exchange; validation of outbound text happens in the controller
// before anything reaches the store.
type TranscriptStore struct {
	turns []Turn
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{}
}

func (s *TranscriptStore) Append(t Turn) {
	s.turns = append(s.turns, t)
}

// History returns the accumulated turns in append order. The returned
// slice is a copy; it is used verbatim as the protocol payload.
func (s *TranscriptStore) History() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len is the raw turn count.
func (s *TranscriptStore) Len() int {
	return len(s.turns)
}

// Exchanges is the number of completed outbound/inbound pairs.
func (s *TranscriptStore) Exchanges() int {
	return len(s.turns) / 2
}
