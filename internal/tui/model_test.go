package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibot/internal/chat"
	"intellibot/internal/config"
	"intellibot/internal/conversation"
	"intellibot/internal/domain"
	"intellibot/internal/prompt"
)

type stubSearcher struct{}

func (stubSearcher) Services(_ context.Context) ([]domain.ServiceDescriptor, error) {
	return nil, nil
}

func (stubSearcher) Search(_ context.Context, _ domain.SearchRequest) ([]domain.Record, error) {
	return []domain.Record{{"chunk": "snippet"}}, nil
}

type stubCompleter struct{}

func (stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return "an answer", nil
}

func testModel(t *testing.T, services []domain.ServiceDescriptor) Model {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	store := conversation.New()
	builder := prompt.NewBuilder(stubSearcher{}, stubCompleter{})
	svc := chat.New(store, builder, stubCompleter{}, services, nil)
	return New(svc, cfg, nil)
}

func discovered() []domain.ServiceDescriptor {
	return []domain.ServiceDescriptor{{Name: "docs_svc", SearchColumn: "chunk"}}
}

func TestInputDisabledWithoutServices(t *testing.T) {
	m := testModel(t, nil)

	assert.False(t, m.inputEnabled())

	m.input.SetValue("What is OWASP?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.Equal(t, 0, m.svc.Store().Len(), "no turn can be appended while disabled")
}

func TestStartupErrorShownOnStatusLine(t *testing.T) {
	m := testModel(t, nil).WithStartupError(errors.New("search service discovery failed: dial tcp: connection refused"))

	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "discovery failed")
	assert.False(t, m.inputEnabled())
}

func TestSubmitStartsCycle(t *testing.T) {
	m := testModel(t, discovered())
	m.input.SetValue("What is OWASP?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	m := testModel(t, discovered())
	m.busy = true
	m.input.SetValue("another question")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, "another question", m.input.Value(), "input untouched while a request is in flight")
}

func TestSubmitIgnoresEmptyInput(t *testing.T) {
	m := testModel(t, discovered())
	m.input.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestAnswerMsgEndsCycle(t *testing.T) {
	m := testModel(t, discovered())
	m.busy = true

	updated, _ := m.Update(answerMsg{answer: chat.Answer{Text: "hi", Context: "Context 1: snippet"}})
	m = updated.(Model)

	assert.False(t, m.busy)
	assert.Equal(t, "Context 1: snippet", m.lastContext)
	assert.False(t, m.statusIsErr)
}

func TestAnswerErrMsgKeepsSessionUsable(t *testing.T) {
	m := testModel(t, discovered())
	m.busy = true

	updated, _ := m.Update(answerErrMsg{err: &domain.UpstreamError{Op: "search", Status: 502}})
	m = updated.(Model)

	assert.False(t, m.busy)
	assert.True(t, m.statusIsErr)
	assert.Equal(t, 0, m.svc.Store().Len())
}

func TestClearKeyResetsConversation(t *testing.T) {
	m := testModel(t, discovered())
	m.svc.Store().Append(domain.Turn{Role: domain.RoleUser, Content: "q"})
	m.svc.Store().Append(domain.Turn{Role: domain.RoleAssistant, Content: "a"})
	m.svc.Store().Pin("a")
	m.summary = "old summary"

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	assert.Equal(t, 0, m.svc.Store().Len())
	assert.Empty(t, m.svc.Store().Pinned())
	assert.Empty(t, m.summary)
}

func TestSliderAdjustClamps(t *testing.T) {
	m := testModel(t, discovered())
	m.cursor = rowChunks

	m.settings.Chunks = sliderMax
	m.adjust(1)
	assert.Equal(t, sliderMax, m.settings.Chunks)

	m.settings.Chunks = sliderMin
	m.adjust(-1)
	assert.Equal(t, sliderMin, m.settings.Chunks)
}

func TestServiceCycling(t *testing.T) {
	services := []domain.ServiceDescriptor{
		{Name: "a_svc", SearchColumn: "chunk"},
		{Name: "b_svc", SearchColumn: "chunk"},
	}
	m := testModel(t, services)
	m.cursor = rowService

	assert.Equal(t, "a_svc", m.settings.Service)
	m.adjust(1)
	assert.Equal(t, "b_svc", m.settings.Service)
	m.adjust(1)
	assert.Equal(t, "a_svc", m.settings.Service, "cycling wraps around")
}

func TestDarkModeToggleSwapsTheme(t *testing.T) {
	m := testModel(t, discovered())
	m.cursor = rowDarkMode
	before := m.st

	m.adjust(1)

	assert.True(t, m.settings.DarkMode)
	assert.NotEqual(t, before.header.GetForeground(), m.st.header.GetForeground())
}

func TestCycleHelper(t *testing.T) {
	opts := []string{"a", "b", "c"}
	assert.Equal(t, "b", cycle(opts, "a", 1))
	assert.Equal(t, "c", cycle(opts, "a", -1))
	assert.Equal(t, "a", cycle(opts, "c", 1))
	assert.Equal(t, "x", cycle(nil, "x", 1))
}

func TestClampHelper(t *testing.T) {
	assert.Equal(t, 1, clamp(0, 1, 10))
	assert.Equal(t, 10, clamp(11, 1, 10))
	assert.Equal(t, 5, clamp(5, 1, 10))
}
