package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aurora-cli/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
)

type serviceStatus int

const (
	statusChecking serviceStatus = iota
	statusOnline
	statusOffline
)

// ChatEntry is one rendered line-group in the conversation pane.
type ChatEntry struct {
	ID        string
	Role      string // "scammer", "aurora", "system", "error"
	Content   string
	Timestamp time.Time
	Metrics   *app.AdvancedMetrics
	Final     *app.FinalOutput
}

type toast struct {
	text  string
	isErr bool
	until time.Time
}

type spinMsg struct{}
type toastTickMsg struct{}
type healthMsg struct{ err error }
type turnDoneMsg struct {
	res *app.TurnResult
	err error
}
type refreshMsg struct {
	res *app.RefreshResult
	err error
}
type finalDueMsg struct{}
type finalMsg struct {
	out    *app.FinalOutput
	err    error
	manual bool
}
type exportMsg struct {
	path string
	err  error
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Canned probe messages carried over from the original web UI's quick
// test buttons.
var quickTests = map[string]string{
	"/test1": "Your account has been blocked! Verify immediately by calling 9876543210",
	"/test2": "Congratulations! You won 1 crore rupees. Pay processing fee to winner@upi",
	"/test3": "Hello, how are you today?",
}

type Model struct {
	ctrl  *app.SessionController
	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	focus    focusArea
	entries  []ChatEntry
	input    textarea.Model
	chatVP   viewport.Model
	showSide bool

	sending    bool
	spinnerPos int
	status     serviceStatus

	confirmingNew bool
	toasts        []toast
}

func New(ctrl *app.SessionController) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message to analyze. Enter sends."
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	m := &Model{
		ctrl:     ctrl,
		theme:    NewTheme(),
		keys:     defaultKeyMap(),
		width:    100,
		height:   30,
		focus:    focusInput,
		input:    ta,
		showSide: true,
		status:   statusChecking,
	}
	m.entries = append(m.entries, ChatEntry{
		ID:        "welcome-1",
		Role:      "system",
		Content:   "aurora ready. Enter sends a message. /test1 /test2 /test3 for canned probes, Ctrl+N new session, Ctrl+F final output, Ctrl+E export.",
		Timestamp: time.Now(),
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.healthCmd(), m.toastTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		layout := m.computeLayout()
		vpW := maxInt(20, layout.ChatW-4)
		vpH := maxInt(3, layout.ChatH-3)
		if !m.ready {
			m.chatVP = viewport.New(vpW, vpH)
			m.ready = true
		} else {
			m.chatVP.Width = vpW
			m.chatVP.Height = vpH
		}
		m.input.SetWidth(maxInt(10, layout.InputW))
		m.updateChatViewport()
		return m, nil

	case tea.KeyMsg:
		if m.confirmingNew {
			switch msg.String() {
			case "y", "Y":
				m.confirmingNew = false
				m.resetForNewSession()
				return m, nil
			case "n", "N", "esc":
				m.confirmingNew = false
				m.pushToast("Kept current session", false)
				return m, nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.NewSession):
			m.confirmingNew = true
			return m, nil

		case key.Matches(msg, m.keys.FinalOutput):
			return m, m.finalCmd(1, true)

		case key.Matches(msg, m.keys.Export):
			return m, m.exportCmd()

		case key.Matches(msg, m.keys.ToggleSide):
			m.showSide = !m.showSide
			m.updateChatViewport()
			return m, nil

		case key.Matches(msg, m.keys.FocusNext):
			if m.focus == focusInput {
				m.focus = focusChat
				m.input.Blur()
			} else {
				m.focus = focusInput
				m.input.Focus()
			}
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if m.focus == focusInput {
				return m, m.onEnter()
			}

		case msg.Type == tea.KeyUp:
			if m.focus == focusChat {
				m.chatVP.LineUp(1)
				return m, nil
			}
		case msg.Type == tea.KeyDown:
			if m.focus == focusChat {
				m.chatVP.LineDown(1)
				return m, nil
			}
		case msg.Type == tea.KeyPgUp:
			m.chatVP.ViewUp()
			return m, nil
		case msg.Type == tea.KeyPgDown:
			m.chatVP.ViewDown()
			return m, nil
		}

	case healthMsg:
		if msg.err != nil {
			m.status = statusOffline
			m.pushToast("Cannot reach the analysis service", true)
		} else {
			m.status = statusOnline
		}
		return m, nil

	case turnDoneMsg:
		return m.onTurnDone(msg)

	case refreshMsg:
		if msg.err == nil && msg.res != nil && msg.res.Final != nil {
			m.appendFinal(msg.res.Final)
		}
		// Failed refreshes are background noise; the next turn retries.
		return m, nil

	case finalDueMsg:
		return m, m.finalCmd(m.ctrl.ConfirmRetries(), false)

	case finalMsg:
		if msg.err != nil {
			if app.IsTransient(msg.err) {
				m.pushToast("Finalization check failed: "+msg.err.Error(), true)
			}
			return m, nil
		}
		if msg.out != nil {
			m.appendFinal(msg.out)
		} else if msg.manual {
			m.pushToast("Session is still active", false)
		}
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.pushToast("Export failed: "+msg.err.Error(), true)
		} else {
			m.pushToast("Session exported to "+msg.path, false)
		}
		return m, nil

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.sending {
			return m, m.spinTick()
		}
		return m, nil

	case toastTickMsg:
		now := time.Now()
		kept := m.toasts[:0]
		for _, t := range m.toasts {
			if t.until.After(now) {
				kept = append(kept, t)
			}
		}
		m.toasts = kept
		return m, m.toastTick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.chatVP, cmd = m.chatVP.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) onEnter() tea.Cmd {
	val := strings.TrimSpace(m.input.Value())
	if val == "" {
		m.pushToast("Message is empty", true)
		return nil
	}

	switch val {
	case "/new":
		m.input.Reset()
		m.confirmingNew = true
		return nil
	case "/final":
		m.input.Reset()
		return m.finalCmd(1, true)
	case "/export":
		m.input.Reset()
		return m.exportCmd()
	case "/quit":
		return tea.Quit
	}
	if canned, ok := quickTests[val]; ok {
		val = canned
	}

	if m.sending {
		m.pushToast("A turn is already in flight", true)
		return nil
	}

	m.entries = append(m.entries, ChatEntry{
		ID:        fmt.Sprintf("scammer-%d", time.Now().UnixNano()),
		Role:      "scammer",
		Content:   val,
		Timestamp: time.Now(),
	})
	m.input.Reset()
	m.sending = true
	m.spinnerPos = 0
	m.updateChatViewport()
	m.chatVP.GotoBottom()

	return tea.Batch(m.submitCmd(val), m.spinTick())
}

func (m *Model) onTurnDone(msg turnDoneMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	if msg.err != nil {
		// The outbound turn stays in the transcript and on screen; the
		// operator is not forced to retype.
		m.pushToast(msg.err.Error(), true)
		return m, nil
	}
	res := msg.res
	if res == nil {
		return m, nil
	}

	m.entries = append(m.entries, ChatEntry{
		ID:        fmt.Sprintf("aurora-%d", time.Now().UnixNano()),
		Role:      "aurora",
		Content:   res.Reply.Text,
		Timestamp: res.Reply.Timestamp,
		Metrics:   res.Metrics,
	})
	m.updateChatViewport()
	m.chatVP.GotoBottom()

	var cmds []tea.Cmd
	if res.RefreshSuggested {
		cmds = append(cmds, m.refreshCmd())
	}
	if res.FinalizeDue {
		cmds = append(cmds, tea.Tick(m.ctrl.ConfirmDelay(), func(time.Time) tea.Msg {
			return finalDueMsg{}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) resetForNewSession() {
	m.ctrl.StartNewSession()
	m.entries = []ChatEntry{{
		ID:        "welcome-1",
		Role:      "system",
		Content:   "New session started: " + app.ShortID(m.ctrl.SessionID()),
		Timestamp: time.Now(),
	}}
	m.updateChatViewport()
	m.pushToast("New session started", false)
}

func (m *Model) appendFinal(out *app.FinalOutput) {
	m.entries = append(m.entries, ChatEntry{
		ID:        fmt.Sprintf("final-%d", time.Now().UnixNano()),
		Role:      "system",
		Timestamp: time.Now(),
		Final:     out,
	})
	m.updateChatViewport()
	m.chatVP.GotoBottom()
	m.pushToast("Session finalized", false)
}

func (m *Model) pushToast(text string, isErr bool) {
	m.toasts = append(m.toasts, toast{text: text, isErr: isErr, until: time.Now().Add(3 * time.Second)})
}

// Commands

func (m *Model) submitCmd(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		res, err := ctrl.SubmitTurn(context.Background(), text)
		return turnDoneMsg{res: res, err: err}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		res, err := ctrl.RefreshIntelligence(context.Background())
		return refreshMsg{res: res, err: err}
	}
}

func (m *Model) finalCmd(attempts int, manual bool) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		out, err := ctrl.ConfirmFinalization(context.Background(), attempts)
		return finalMsg{out: out, err: err, manual: manual}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		path, err := ctrl.ExportSnapshot(context.Background())
		return exportMsg{path: path, err: err}
	}
}

func (m *Model) healthCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthMsg{err: ctrl.Health(ctx)}
	}
}

func (m *Model) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

func (m *Model) toastTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return toastTickMsg{} })
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
