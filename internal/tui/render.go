package tui

import (
	"fmt"
	"strings"

	"aurora-cli/internal/app"

	"github.com/charmbracelet/lipgloss"
)

type layoutInfo struct {
	MainH  int
	ChatW  int
	ChatH  int
	SideW  int
	InputW int
}

func (m *Model) computeLayout() layoutInfo {
	top := 1
	foot := 2
	inputH := 3
	mainH := m.height - top - foot - inputH
	if mainH < 3 {
		mainH = 3
	}

	showSide := m.showSide && m.width >= 90
	chatW := m.width
	sideW := 0
	if showSide {
		gap := 1
		sideW = 36
		chatW = m.width - gap - sideW
		if chatW < 48 {
			chatW = 48
			sideW = m.width - gap - chatW
		}
	}

	return layoutInfo{
		MainH:  mainH,
		ChatW:  chatW,
		ChatH:  mainH,
		SideW:  sideW,
		InputW: chatW - 4,
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}
	layout := m.computeLayout()
	top := m.renderTopBar()
	main := m.renderMain(layout)
	input := m.renderInputArea(layout)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, main, input, footer)
}

func (m *Model) renderTopBar() string {
	left := m.theme.TopBarTitle.Render("aurora") + " " +
		m.theme.TopBarBadge.Render(app.ShortID(m.ctrl.SessionID()))

	var status string
	switch {
	case m.sending:
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " analyzing…")
	case m.status == statusOnline:
		status = m.theme.StatusOnline.Render("● online")
	case m.status == statusOffline:
		status = m.theme.StatusOffline.Render("● offline")
	default:
		status = m.theme.StatusChecking.Render("● checking…")
	}

	right := m.theme.TopBarMeta.Render(fmt.Sprintf("turns %d", m.ctrl.TurnCount()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	b := gap - a
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", b) + right)
}

func (m *Model) renderFooter() string {
	if m.confirmingNew {
		return m.theme.ToastError.Render("Start a new session? The current conversation will be discarded. [y/n]")
	}

	hints := "enter send  ctrl+n new  ctrl+f final  ctrl+e export  ctrl+t metrics  ctrl+c quit"
	if m.width < 90 {
		hints = "enter send  ctrl+n new  ctrl+c quit"
	}
	line := m.theme.Footer.Width(m.width).Render(hints)

	if len(m.toasts) == 0 {
		return line + "\n"
	}
	t := m.toasts[len(m.toasts)-1]
	style := m.theme.ToastInfo
	if t.isErr {
		style = m.theme.ToastError
	}
	return line + "\n" + style.Render(truncateRunes(t.text, maxInt(10, m.width-2)))
}

func (m *Model) renderInputArea(l layoutInfo) string {
	box := m.theme.InputBox
	if m.focus == focusInput {
		box = m.theme.InputBoxF
	}
	return box.Width(maxInt(10, m.width-2)).Render(m.input.View())
}

func (m *Model) renderMain(l layoutInfo) string {
	chat := m.renderChatPane(l)
	if l.SideW <= 0 {
		return chat
	}
	side := m.renderSidePane(l)
	sep := m.theme.PaneDivider.Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, chat, sep, side)
}

func (m *Model) renderChatPane(l layoutInfo) string {
	title := "Conversation"
	box := m.theme.Pane
	if m.focus == focusChat {
		box = m.theme.PaneFocused
		title = m.theme.PaneTitleF.Render(title)
	} else {
		title = m.theme.PaneTitle.Render(title)
	}
	// lipgloss width/height exclude the border.
	return box.Width(l.ChatW - 2).Height(l.ChatH - 2).Render(title + "\n" + m.chatVP.View())
}

func (m *Model) updateChatViewport() {
	if !m.ready {
		return
	}
	width := m.computeLayout().ChatW - 4
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(m.renderEntry(e, width))
		b.WriteString("\n\n")
	}
	m.chatVP.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderEntry(e ChatEntry, width int) string {
	if e.Final != nil {
		return m.renderFinalOutput(e.Final, width)
	}

	var roleStyle lipgloss.Style
	var label string
	switch e.Role {
	case "scammer":
		roleStyle, label = m.theme.RoleScammer, "SCAMMER"
	case "aurora":
		roleStyle, label = m.theme.RoleAurora, "AURORA"
	case "error":
		roleStyle, label = m.theme.RoleErr, "ERR"
	default:
		roleStyle, label = m.theme.RoleSys, "SYS"
	}

	header := roleStyle.Render(label) + " " + m.theme.TopBarMeta.Render(e.Timestamp.Format("15:04:05"))
	body := lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(e.Content)

	out := header + "\n" + body
	if badges := m.renderMetricBadges(e.Metrics); badges != "" {
		out += "\n" + badges
	}
	return out
}

// renderMetricBadges shows the inline per-reply signals when the
// service attached analytics to the reply.
func (m *Model) renderMetricBadges(metrics *app.AdvancedMetrics) string {
	if metrics == nil {
		return ""
	}
	var parts []string
	if metrics.Traa != nil {
		risk := metrics.Traa.RiskScore
		parts = append(parts, m.riskStyle(risk).Render(fmt.Sprintf("risk %.2f", risk)))
		parts = append(parts, m.theme.MetricLabel.Render(fmt.Sprintf("conf %.2f", metrics.Traa.Confidence)))
	}
	if metrics.FSM != nil && metrics.FSM.State != "" {
		parts = append(parts, m.theme.MetricLabel.Render("state "+metrics.FSM.State))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}

func (m *Model) riskStyle(score float64) lipgloss.Style {
	switch app.BandRisk(score) {
	case app.RiskHigh:
		return m.theme.RiskHigh
	case app.RiskMedium:
		return m.theme.RiskMedium
	}
	return m.theme.RiskLow
}

func (m *Model) renderSidePane(l layoutInfo) string {
	snap := m.ctrl.Snapshot()
	inner := l.SideW - 4
	if inner < 16 {
		inner = 16
	}

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Live Analysis"))
	b.WriteString("\n\n")

	band := app.BandRisk(snap.RiskScore)
	b.WriteString(m.theme.MetricLabel.Render("Risk score "))
	b.WriteString(m.riskStyle(snap.RiskScore).Render(fmt.Sprintf("%.2f %s", snap.RiskScore, band)))
	b.WriteString("\n")
	b.WriteString(renderBar(m.theme, snap.RiskScore, inner))
	b.WriteString("\n\n")

	b.WriteString(m.theme.MetricLabel.Render("Confidence "))
	b.WriteString(m.theme.MetricValue.Render(fmt.Sprintf("%.2f", snap.Confidence)))
	b.WriteString("\n")
	b.WriteString(renderBar(m.theme, snap.Confidence, inner))
	b.WriteString("\n\n")

	b.WriteString(m.theme.MetricLabel.Render("State "))
	b.WriteString(m.theme.MetricValue.Render(snap.State))
	b.WriteString("\n")

	if snap.ScamType != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.IntelType.Render(snap.ScamType.Name))
		b.WriteString("\n")
		b.WriteString(renderBar(m.theme, snap.ScamType.Confidence, inner))
		b.WriteString("\n")
		b.WriteString(m.theme.MetricLabel.Render("urgency " + snap.ScamType.Urgency))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.PaneTitle.Render("Intelligence"))
	b.WriteString("\n")
	b.WriteString(m.renderIntelligence(snap.Intelligence, inner))

	return m.theme.Pane.Width(l.SideW - 2).Height(l.MainH - 2).Render(b.String())
}

func (m *Model) renderIntelligence(intel app.Intelligence, width int) string {
	if intel.Total() == 0 {
		return m.theme.MetricLabel.Render("No intelligence extracted yet")
	}
	var b strings.Builder
	buckets := []struct {
		label  string
		values []string
	}{
		{"Phone numbers", intel.PhoneNumbers},
		{"UPI IDs", intel.UPIIDs},
		{"Bank accounts", intel.BankAccounts},
		{"Phishing links", intel.PhishingLinks},
		{"Email addresses", intel.EmailAddresses},
	}
	for _, bucket := range buckets {
		if len(bucket.values) == 0 {
			continue
		}
		b.WriteString(m.theme.IntelType.Render(bucket.label))
		b.WriteString("\n")
		for _, v := range bucket.values {
			b.WriteString(m.theme.IntelValue.Render("  " + truncateRunes(v, width-2)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderFinalOutput(out *app.FinalOutput, width int) string {
	row := func(label, value string) string {
		return m.theme.FinalLabel.Render(label+" ") + m.theme.FinalValue.Render(value)
	}

	var b strings.Builder
	b.WriteString(m.theme.FinalHeader.Render("Session finalized: final output"))
	b.WriteString("\n")
	b.WriteString(row("Session:", out.SessionID))
	b.WriteString("\n")
	verdict := "NO"
	style := m.theme.RiskLow
	if out.ScamDetected {
		verdict = "YES"
		style = m.theme.RiskHigh
	}
	b.WriteString(m.theme.FinalLabel.Render("Scam detected: ") + style.Render(verdict))
	b.WriteString("\n")
	if out.ScamType != "" {
		b.WriteString(row("Scam type:", fmt.Sprintf("%s (%.2f)", out.ScamType, out.ConfidenceLevel)))
		b.WriteString("\n")
	}
	b.WriteString(row("Total messages:", fmt.Sprintf("%d", out.TotalMessagesExchanged)))
	b.WriteString("\n")
	b.WriteString(row("Engagement:", fmt.Sprintf("%ds", out.EngagementMetrics.EngagementDurationSeconds)))
	b.WriteString("\n")

	if out.ExtractedIntelligence.Total() > 0 {
		b.WriteString(m.theme.FinalLabel.Render("Extracted intelligence:"))
		b.WriteString("\n")
		b.WriteString(m.renderIntelligence(out.ExtractedIntelligence, width))
		b.WriteString("\n")
	}
	if out.AgentNotes != "" {
		b.WriteString(m.theme.FinalLabel.Render("Notes: ") + m.theme.FinalValue.Render(out.AgentNotes))
	}

	return m.theme.FinalBox.Width(maxInt(20, width-2)).Render(strings.TrimRight(b.String(), "\n"))
}

func renderBar(t Theme, value float64, width int) string {
	if width < 4 {
		width = 4
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return t.BarFill.Render(strings.Repeat("█", filled)) + t.BarEmpty.Render(strings.Repeat("░", width-filled))
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-1]) + "…"
}
