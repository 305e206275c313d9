package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the theme-dependent colors. Two instances exist, one per
// value of the dark-mode toggle.
type palette struct {
	text      lipgloss.Color
	muted     lipgloss.Color
	accent    lipgloss.Color
	userBubbl lipgloss.Color
	errText   lipgloss.Color
	border    lipgloss.Color
}

var lightPalette = palette{
	text:      lipgloss.Color("0"),
	muted:     lipgloss.Color("8"),
	accent:    lipgloss.Color("4"),
	userBubbl: lipgloss.Color("2"),
	errText:   lipgloss.Color("1"),
	border:    lipgloss.Color("8"),
}

var darkPalette = palette{
	text:      lipgloss.Color("15"),
	muted:     lipgloss.Color("7"),
	accent:    lipgloss.Color("12"),
	userBubbl: lipgloss.Color("10"),
	errText:   lipgloss.Color("9"),
	border:    lipgloss.Color("7"),
}

// styles are derived from the active palette on every theme switch.
type styles struct {
	header    lipgloss.Style
	help      lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	userTag   lipgloss.Style
	botTag    lipgloss.Style
	hero      lipgloss.Style
	chatBox   lipgloss.Style
	inputBox  lipgloss.Style
	sideBox   lipgloss.Style
	rowActive lipgloss.Style
	rowIdle   lipgloss.Style
	pinned    lipgloss.Style
	debugBox  lipgloss.Style
}

func newStyles(p palette) styles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1)
	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		help:      lipgloss.NewStyle().Foreground(p.muted),
		status:    lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		errStatus: lipgloss.NewStyle().Foreground(p.errText).Bold(true),
		userTag:   lipgloss.NewStyle().Foreground(p.userBubbl).Bold(true),
		botTag:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		hero:      lipgloss.NewStyle().Foreground(p.muted).Padding(1, 2),
		chatBox:   box,
		inputBox:  box,
		sideBox:   box,
		rowActive: lipgloss.NewStyle().Foreground(p.text).Bold(true),
		rowIdle:   lipgloss.NewStyle().Foreground(p.muted),
		pinned:    lipgloss.NewStyle().Foreground(p.userBubbl),
		debugBox:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(p.muted).Padding(0, 1),
	}
}
