// Package tui renders the chat session: transcript view, configuration
// sidebar, and the question input. One render cycle per user-visible event;
// at most one backend request is in flight at a time.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"intellibot/internal/chat"
	"intellibot/internal/config"
	"intellibot/internal/domain"
)

const appName = "IntelliBot"

const (
	sliderMin = 1
	sliderMax = 10
)

// settingRow identifies one widget in the configuration sidebar.
type settingRow int

const (
	rowService settingRow = iota
	rowTopic
	rowModel
	rowChunks
	rowHistoryTurns
	rowUseHistory
	rowDebug
	rowDarkMode
	rowCount
)

// Model is the Bubble Tea model for the chat session.
type Model struct {
	svc      *chat.Service
	settings chat.Settings
	models   []string
	topics   []string

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	st          styles
	busy        bool
	ready       bool
	sidebar     bool
	cursor      settingRow
	status      string
	statusIsErr bool
	lastContext string
	summary     string
	width       int
	height      int
	log         *zap.Logger
}

// New creates the session model. Settings are seeded from the loaded config;
// the selected service defaults to the first discovered one. With zero
// discovered services the chat input stays disabled for the whole session.
func New(svc *chat.Service, cfg *config.AppConfig, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	settings := chat.Settings{
		Model:        cfg.Chat.DefaultModel,
		Chunks:       cfg.Chat.RetrievedChunks,
		HistoryTurns: cfg.Chat.HistoryTurns,
		UseHistory:   cfg.Chat.UseChatHistory == nil || *cfg.Chat.UseChatHistory,
		Debug:        cfg.Chat.Debug,
		DarkMode:     cfg.Chat.DarkMode,
	}
	if len(cfg.Chat.Topics) > 0 {
		settings.Topic = cfg.Chat.Topics[0]
	}
	if services := svc.Services(); len(services) > 0 {
		settings.Service = services[0].Name
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0
	if len(svc.Services()) == 0 {
		ti.Placeholder = "no search services discovered - chat disabled"
	} else {
		ti.Placeholder = "Ask your question..."
		ti.Focus()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		svc:      svc,
		settings: settings,
		models:   cfg.Chat.Models,
		topics:   cfg.Chat.Topics,
		input:    ti,
		viewport: viewport.New(0, 0),
		spin:     sp,
		log:      log,
	}
	m.applyTheme()
	return m
}

// WithStartupError pre-sets the status line to a backend failure that happened
// before the session started, so a failed discovery is distinguishable from an
// account with no services configured.
func (m Model) WithStartupError(err error) Model {
	if err != nil {
		m.setStatus("Error: "+err.Error(), true)
	}
	return m
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and backend-response events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.applyTheme()
		m.layout()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case answerMsg:
		m.busy = false
		m.lastContext = msg.answer.Context
		m.setStatus("", false)
		m.input.Focus()
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case answerErrMsg:
		m.busy = false
		m.setStatus("Error: "+msg.err.Error(), true)
		m.input.Focus()
		return m, nil

	case summaryMsg:
		m.busy = false
		m.summary = msg.text
		m.setStatus("Summary generated.", false)
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case transcriptSavedMsg:
		m.setStatus("Transcript saved to "+msg.path, false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch msg.String() {
	case "tab":
		m.sidebar = !m.sidebar
		if m.sidebar {
			m.input.Blur()
		} else if m.inputEnabled() {
			m.input.Focus()
		}
		return m, nil

	case "ctrl+l":
		m.svc.Store().Clear()
		m.summary = ""
		m.lastContext = ""
		m.setStatus("Conversation cleared.", false)
		m.refresh()
		return m, nil

	case "ctrl+p":
		if reply, ok := m.lastAssistantReply(); ok {
			m.svc.Store().Pin(reply)
			m.setStatus("Pinned.", false)
			m.refresh()
		}
		return m, nil

	case "ctrl+s":
		if m.svc.Store().Len() == 0 {
			return m, nil
		}
		return m, saveTranscript(m.svc.Store().Transcript())

	case "ctrl+g":
		if m.busy || m.svc.Store().Len() == 0 {
			return m, nil
		}
		m.busy = true
		m.setStatus("Summarizing...", false)
		return m, tea.Batch(m.spin.Tick, summarize(m.svc, m.settings))
	}

	if m.sidebar {
		return m.handleSidebarKey(msg)
	}

	if msg.String() == "enter" {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.busy || !m.inputEnabled() {
		return m, nil
	}
	m.busy = true
	m.input.SetValue("")
	m.setStatus(appName+" is typing...", false)
	return m, tea.Batch(m.spin.Tick, ask(m.svc, question, m.settings))
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < rowCount-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l", "enter", " ":
		m.adjust(1)
	}
	return m, nil
}

// adjust applies a widget interaction to the selected row: cycle a selector,
// nudge a slider within its bounds, or flip a toggle.
func (m *Model) adjust(delta int) {
	switch m.cursor {
	case rowService:
		names := serviceNames(m.svc.Services())
		m.settings.Service = cycle(names, m.settings.Service, delta)
	case rowTopic:
		m.settings.Topic = cycle(m.topics, m.settings.Topic, delta)
	case rowModel:
		m.settings.Model = cycle(m.models, m.settings.Model, delta)
	case rowChunks:
		m.settings.Chunks = clamp(m.settings.Chunks+delta, sliderMin, sliderMax)
	case rowHistoryTurns:
		m.settings.HistoryTurns = clamp(m.settings.HistoryTurns+delta, sliderMin, sliderMax)
	case rowUseHistory:
		m.settings.UseHistory = !m.settings.UseHistory
	case rowDebug:
		m.settings.Debug = !m.settings.Debug
		m.layout()
		m.refresh()
	case rowDarkMode:
		m.settings.DarkMode = !m.settings.DarkMode
		m.applyTheme()
		m.refresh()
	}
}

func (m Model) inputEnabled() bool {
	return len(m.svc.Services()) > 0
}

func (m Model) lastAssistantReply() (string, bool) {
	turns := m.svc.Store().Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleAssistant {
			return turns[i].Content, true
		}
	}
	return "", false
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

// applyTheme rebuilds styles and the markdown renderer for the active
// dark-mode setting.
func (m *Model) applyTheme() {
	p := lightPalette
	glamourStyle := "light"
	if m.settings.DarkMode {
		p = darkPalette
		glamourStyle = "dark"
	}
	m.st = newStyles(p)

	wrap := m.chatWidth() - 4
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.log.Warn("markdown renderer unavailable", zap.Error(err))
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

func serviceNames(descriptors []domain.ServiceDescriptor) []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// cycle steps through options from the current value, wrapping around.
func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	return options[idx]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func slider(v int) string {
	return fmt.Sprintf("%2d %s", v, strings.Repeat("■", v)+strings.Repeat("□", sliderMax-v))
}
