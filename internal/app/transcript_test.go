package app

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTranscriptStore_AppendOrderAndExchanges(t *testing.T) {
	store := NewTranscriptStore()
	now := time.Now()

	store.Append(Turn{Sender: SenderCounterpart, Text: "hello", Timestamp: now})
	store.Append(Turn{Sender: SenderSystem, Text: "hi there", Timestamp: now.Add(time.Second)})
	store.Append(Turn{Sender: SenderCounterpart, Text: "pay me", Timestamp: now.Add(2 * time.Second)})

	if store.Len() != 3 {
		t.Fatalf("Len = %d, want 3", store.Len())
	}
	if store.Exchanges() != 1 {
		t.Fatalf("Exchanges = %d, want 1 (incomplete pair does not count)", store.Exchanges())
	}

	h := store.History()
	if len(h) != 3 {
		t.Fatalf("History length = %d, want 3", len(h))
	}
	want := []string{"hello", "hi there", "pay me"}
	for i, text := range want {
		if h[i].Text != text {
			t.Fatalf("History[%d].Text = %q, want %q", i, h[i].Text, text)
		}
	}
}

func TestTranscriptStore_HistoryIsACopy(t *testing.T) {
	store := NewTranscriptStore()
	store.Append(Turn{Sender: SenderCounterpart, Text: "original"})

	h := store.History()
	h[0].Text = "mutated"

	if got := store.History()[0].Text; got != "original" {
		t.Fatalf("store mutated through History copy: %q", got)
	}
}

func TestSender_WireValues(t *testing.T) {
	tests := []struct {
		name   string
		sender Sender
		want   string
	}{
		{name: "counterpart", sender: SenderCounterpart, want: `"scammer"`},
		{name: "system", sender: SenderSystem, want: `"user"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.sender)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tc.want {
				t.Fatalf("marshal %v = %s, want %s", tc.sender, data, tc.want)
			}

			var back Sender
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tc.sender {
				t.Fatalf("round trip %v -> %v", tc.sender, back)
			}
		})
	}
}

func TestSender_RejectsUnknownWireValue(t *testing.T) {
	var s Sender
	if err := json.Unmarshal([]byte(`"operator"`), &s); err == nil {
		t.Fatal("expected error for unknown sender value")
	}
}

func TestTurn_JSONShape(t *testing.T) {
	turn := Turn{
		Sender:    SenderCounterpart,
		Text:      "Your account has been blocked!",
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(turn)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["sender"] != "scammer" {
		t.Fatalf("sender = %v, want scammer", raw["sender"])
	}
	if raw["text"] != "Your account has been blocked!" {
		t.Fatalf("text = %v", raw["text"])
	}
	if _, ok := raw["timestamp"].(string); !ok {
		t.Fatalf("timestamp not a string: %v", raw["timestamp"])
	}
}
