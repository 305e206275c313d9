package tui

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"intellibot/internal/chat"
)

// answerMsg is sent when a question/answer cycle completes.
type answerMsg struct {
	answer chat.Answer
}

// answerErrMsg is sent when the cycle fails; nothing was appended.
type answerErrMsg struct {
	err error
}

// summaryMsg carries a generated transcript summary.
type summaryMsg struct {
	text string
}

// transcriptSavedMsg is sent after the transcript file was written.
type transcriptSavedMsg struct {
	path string
}

func ask(svc *chat.Service, question string, settings chat.Settings) tea.Cmd {
	return func() tea.Msg {
		answer, err := svc.Ask(context.Background(), question, settings)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func summarize(svc *chat.Service, settings chat.Settings) tea.Cmd {
	return func() tea.Msg {
		summary, err := svc.Summarize(context.Background(), settings)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return summaryMsg{text: summary}
	}
}

func saveTranscript(transcript string) tea.Cmd {
	return func() tea.Msg {
		path := "chat_history.txt"
		if err := os.WriteFile(path, []byte(transcript+"\n"), 0o644); err != nil {
			return answerErrMsg{err: err}
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return transcriptSavedMsg{path: path}
	}
}
