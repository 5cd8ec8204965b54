package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	"aurora-cli/internal/app"

	"github.com/charmbracelet/lipgloss"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := app.DefaultConfig()
	client := app.NewClient("http://127.0.0.1:1", "test-key")
	ctrl := app.NewSessionController(cfg, client, app.NewLogger(io.Discard))
	m := New(ctrl)
	m.entries = nil
	m.width = 120
	m.height = 36
	layout := m.computeLayout()
	m.chatVP.Width = layout.ChatW - 4
	m.chatVP.Height = layout.ChatH - 3
	m.ready = true
	return m
}

func TestComputeLayout_NarrowHidesSidePane(t *testing.T) {
	m := newTestModel(t)
	m.width = 70

	layout := m.computeLayout()
	if layout.SideW != 0 {
		t.Fatalf("expected side pane hidden at width 70, got SideW=%d", layout.SideW)
	}
	if layout.ChatW != 70 {
		t.Fatalf("expected chat to take full width, got %d", layout.ChatW)
	}
}

func TestComputeLayout_WideSplitsPanes(t *testing.T) {
	m := newTestModel(t)

	layout := m.computeLayout()
	if layout.SideW == 0 {
		t.Fatalf("expected side pane at width %d", m.width)
	}
	if layout.ChatW+1+layout.SideW != m.width {
		t.Fatalf("panes do not tile the width: chat=%d side=%d total=%d",
			layout.ChatW, layout.SideW, m.width)
	}
}

func TestComputeLayout_ToggleHidesSidePane(t *testing.T) {
	m := newTestModel(t)
	m.showSide = false

	if layout := m.computeLayout(); layout.SideW != 0 {
		t.Fatalf("expected no side pane after toggle, got SideW=%d", layout.SideW)
	}
}

func TestRenderTopBar_DoesNotOverflow(t *testing.T) {
	m := newTestModel(t)
	m.width = 60
	m.sending = true

	out := m.renderTopBar()
	for _, line := range strings.Split(out, "\n") {
		if got := lipgloss.Width(line); got > m.width {
			t.Fatalf("top bar overflows: got %d > %d: %q", got, m.width, line)
		}
	}
	if !strings.Contains(out, "analyzing") {
		t.Fatalf("expected in-flight indicator while sending, got: %q", out)
	}
}

func TestRenderBar_FillProportional(t *testing.T) {
	theme := NewTheme()
	tests := []struct {
		value  float64
		width  int
		filled int
	}{
		{0, 10, 0},
		{0.5, 10, 5},
		{1, 10, 10},
		{1.7, 10, 10},
		{-0.3, 10, 0},
	}
	for _, tt := range tests {
		out := renderBar(theme, tt.value, tt.width)
		if got := strings.Count(out, "█"); got != tt.filled {
			t.Fatalf("renderBar(%v, %d): filled cells = %d, want %d", tt.value, tt.width, got, tt.filled)
		}
		if got := strings.Count(out, "█") + strings.Count(out, "░"); got != tt.width {
			t.Fatalf("renderBar(%v, %d): total cells = %d, want %d", tt.value, tt.width, got, tt.width)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a longer message that must be cut", 10, "a longer …"},
		{"", 5, ""},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Fatalf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestRenderEntry_MetricBadges(t *testing.T) {
	m := newTestModel(t)
	entry := ChatEntry{
		Role:      "aurora",
		Content:   "Could you tell me which bank sent that?",
		Timestamp: time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
		Metrics: &app.AdvancedMetrics{
			Traa: &app.TraaMetrics{RiskScore: 0.82, Confidence: 0.91},
			FSM:  &app.FSMState{State: "extracting"},
		},
	}

	out := m.renderEntry(entry, 80)
	if !strings.Contains(out, "AURORA") {
		t.Fatalf("expected role label, got: %q", out)
	}
	if !strings.Contains(out, "risk 0.82") {
		t.Fatalf("expected risk badge, got: %q", out)
	}
	if !strings.Contains(out, "conf 0.91") {
		t.Fatalf("expected confidence badge, got: %q", out)
	}
	if !strings.Contains(out, "state extracting") {
		t.Fatalf("expected state badge, got: %q", out)
	}
}

func TestRenderEntry_NoBadgesWithoutMetrics(t *testing.T) {
	m := newTestModel(t)
	entry := ChatEntry{
		Role:      "scammer",
		Content:   "Your account has been blocked",
		Timestamp: time.Now(),
	}

	out := m.renderEntry(entry, 80)
	if strings.Contains(out, "risk") {
		t.Fatalf("did not expect a risk badge on a plain entry: %q", out)
	}
}

func TestRenderFinalOutput_Verdict(t *testing.T) {
	m := newTestModel(t)
	final := &app.FinalOutput{
		Status:                 "completed",
		SessionID:              "aurora-1709548200000-abc123def",
		ScamDetected:           true,
		ScamType:               "digital_arrest",
		ConfidenceLevel:        0.93,
		TotalMessagesExchanged: 20,
		ExtractedIntelligence: app.Intelligence{
			PhoneNumbers: []string{"9876543210"},
			UPIIDs:       []string{"winner@upi"},
		},
		EngagementMetrics: app.EngagementMetrics{
			TotalMessagesExchanged:    20,
			EngagementDurationSeconds: 340,
		},
		AgentNotes: "Counterpart pushed for an immediate fee payment.",
	}

	out := m.renderFinalOutput(final, 80)
	for _, want := range []string{"YES", "digital_arrest", "9876543210", "winner@upi", "340s", "fee payment"} {
		if !strings.Contains(out, want) {
			t.Fatalf("final output missing %q in: %q", want, out)
		}
	}
}

func TestRenderSidePane_EmptyIntelligence(t *testing.T) {
	m := newTestModel(t)

	out := m.renderSidePane(m.computeLayout())
	if !strings.Contains(out, "No intelligence extracted yet") {
		t.Fatalf("expected empty-intelligence placeholder, got: %q", out)
	}
	if !strings.Contains(out, "Risk score") {
		t.Fatalf("expected risk score row, got: %q", out)
	}
}

func TestOnEnter_EmptyInputDoesNotSubmit(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	cmd := m.onEnter()
	if cmd != nil {
		t.Fatalf("expected no command for a blank submission")
	}
	if len(m.entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(m.entries))
	}
	if len(m.toasts) == 0 {
		t.Fatalf("expected a toast explaining the rejection")
	}
}

func TestOnEnter_QuickTestExpands(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/test3")

	cmd := m.onEnter()
	if cmd == nil {
		t.Fatalf("expected a submit command")
	}
	if len(m.entries) != 1 {
		t.Fatalf("expected one outbound entry, got %d", len(m.entries))
	}
	if m.entries[0].Content != "Hello, how are you today?" {
		t.Fatalf("quick test not expanded: %q", m.entries[0].Content)
	}
	if !m.sending {
		t.Fatalf("expected model to mark a turn in flight")
	}
}

func TestOnEnter_RejectsWhileSending(t *testing.T) {
	m := newTestModel(t)
	m.sending = true
	m.input.SetValue("second message")

	if cmd := m.onEnter(); cmd != nil {
		t.Fatalf("expected no command while a turn is in flight")
	}
	if len(m.entries) != 0 {
		t.Fatalf("expected no entry appended, got %d", len(m.entries))
	}
}

func TestView_DoesNotOverflowWidth(t *testing.T) {
	m := newTestModel(t)
	m.width = 100
	m.height = 30
	layout := m.computeLayout()
	m.chatVP.Width = layout.ChatW - 4
	m.chatVP.Height = layout.ChatH - 3
	m.entries = append(m.entries, ChatEntry{
		Role:      "scammer",
		Content:   strings.Repeat("a very long scam message ", 20),
		Timestamp: time.Now(),
	})
	m.updateChatViewport()

	for _, line := range strings.Split(m.View(), "\n") {
		if got := lipgloss.Width(line); got > m.width {
			t.Fatalf("view line overflows: got %d > %d: %q", got, m.width, line)
		}
	}
}
