package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"intellibot/internal/domain"
)

const sidebarWidth = 34

func (m Model) chatWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 30 {
		w = 30
	}
	return w
}

// layout resizes the transcript viewport for the current window and debug
// panel state.
func (m *Model) layout() {
	_, chromeH := m.st.chatBox.GetFrameSize()
	reserved := 1 + 1 + 3 + 1 + 1 + chromeH // header, spacer, input box, status, help, chat frame
	if m.settings.Debug {
		reserved += debugPanelHeight + 2
	}
	vh := m.height - reserved
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = m.chatWidth() - 2
	m.viewport.Height = vh
}

const debugPanelHeight = 6

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
}

// View renders the whole session screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.st.header.Render(appName) +
		m.st.help.Render("  Precision. Speed. Knowledge.")

	chatPane := m.st.chatBox.Width(m.chatWidth()).Render(m.viewport.View())
	sidePane := m.st.sideBox.Width(sidebarWidth - 2).Render(m.renderSidebar())
	main := lipgloss.JoinHorizontal(lipgloss.Top, chatPane, " ", sidePane)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(main)
	b.WriteString("\n")

	if m.settings.Debug {
		b.WriteString(m.renderDebugPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.st.inputBox.Width(m.chatWidth()).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.st.help.Render("[Enter: Ask] [Tab: Settings] [Ctrl+L: Clear] [Ctrl+P: Pin] [Ctrl+S: Save] [Ctrl+G: Summary] [Ctrl+C: Quit]"))
	return b.String()
}

func (m Model) renderStatus() string {
	if m.busy {
		return m.spin.View() + m.st.status.Render(m.status)
	}
	if m.statusIsErr {
		return m.st.errStatus.Render(m.status)
	}
	return m.st.status.Render(m.status)
}

func (m Model) renderTranscript() string {
	turns := m.svc.Store().Turns()
	var b strings.Builder

	if pinned := m.svc.Store().Pinned(); len(pinned) > 0 {
		b.WriteString(m.st.pinned.Render("Pinned:"))
		b.WriteString("\n")
		for i, p := range pinned {
			b.WriteString(m.st.pinned.Render(fmt.Sprintf("  %d. %s", i+1, firstLine(p))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(turns) == 0 {
		return b.String() + m.renderWelcome()
	}

	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleUser:
			b.WriteString(m.st.userTag.Render("You: "))
			b.WriteString(turn.Content)
		default:
			b.WriteString(m.st.botTag.Render(appName + ":"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(turn.Content))
		}
		b.WriteString("\n\n")
	}

	if m.summary != "" {
		b.WriteString(m.st.botTag.Render("Summary:"))
		b.WriteString("\n")
		b.WriteString(m.renderMarkdown(m.summary))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderWelcome() string {
	topics := strings.Join(m.topics, ", ")
	return m.st.hero.Render(fmt.Sprintf(
		"Welcome to %s! Ask any question based on our uploaded documents.\n\n"+
			"Topics available: %s\n\n"+
			"Try asking:\n"+
			"  - What is the difference between RDS and Redshift?\n"+
			"  - How do I deploy a model in Kubernetes?\n"+
			"  - What are OWASP Top 10 vulnerabilities?\n"+
			"  - How to connect Python to PostgreSQL?",
		appName, topics))
}

func (m Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderSidebar() string {
	rows := []struct {
		row   settingRow
		label string
		value string
	}{
		{rowService, "Search Service", valueOrNone(m.settings.Service)},
		{rowTopic, "Topic", m.settings.Topic},
		{rowModel, "Model", m.settings.Model},
		{rowChunks, "Context Chunks", slider(m.settings.Chunks)},
		{rowHistoryTurns, "History Turns", slider(m.settings.HistoryTurns)},
		{rowUseHistory, "Use Chat History", onOff(m.settings.UseHistory)},
		{rowDebug, "Debug Mode", onOff(m.settings.Debug)},
		{rowDarkMode, "Dark Mode", onOff(m.settings.DarkMode)},
	}

	var b strings.Builder
	b.WriteString(m.st.header.Render("Configuration"))
	b.WriteString("\n\n")
	for _, r := range rows {
		style := m.st.rowIdle
		marker := "  "
		if m.sidebar && r.row == m.cursor {
			style = m.st.rowActive
			marker = "> "
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-17s %s", marker, r.label, r.value)))
		b.WriteString("\n")
	}
	if !m.sidebar {
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("Tab to edit settings"))
	}
	return b.String()
}

func (m Model) renderDebugPanel() string {
	content := m.lastContext
	if content == "" {
		content = "(no context retrieved yet)"
	}
	lines := strings.Split(content, "\n")
	if len(lines) > debugPanelHeight {
		lines = lines[:debugPanelHeight]
		lines = append(lines, "...")
	}
	title := m.st.help.Render("Context Documents")
	return m.st.debugBox.Width(m.chatWidth()).Render(title + "\n" + strings.Join(lines, "\n"))
}

func valueOrNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
