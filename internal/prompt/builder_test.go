package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibot/internal/domain"
)

type mockSearcher struct {
	searchFunc func(ctx context.Context, req domain.SearchRequest) ([]domain.Record, error)
	lastReq    domain.SearchRequest
}

func (m *mockSearcher) Services(_ context.Context) ([]domain.ServiceDescriptor, error) {
	return []domain.ServiceDescriptor{{Name: "docs_svc", SearchColumn: "chunk"}}, nil
}

func (m *mockSearcher) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Record, error) {
	m.lastReq = req
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req)
	}
	return []domain.Record{{"chunk": "a snippet"}}, nil
}

type mockCompleter struct {
	completeFunc func(ctx context.Context, model, prompt string) (string, error)
	lastPrompt   string
}

func (m *mockCompleter) Complete(ctx context.Context, model, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.completeFunc != nil {
		return m.completeFunc(ctx, model, prompt)
	}
	return "rewritten query", nil
}

func TestBuildWithoutHistoryUsesQuestionVerbatim(t *testing.T) {
	search := &mockSearcher{}
	complete := &mockCompleter{}
	b := NewBuilder(search, complete)

	res, err := b.Build(context.Background(), Input{
		Question:     "What is OWASP?",
		UseHistory:   true, // history empty, so no rewrite
		Service:      "docs_svc",
		SearchColumn: "chunk",
		Model:        "mistral-large2",
		Chunks:       5,
	})
	require.NoError(t, err)

	assert.Equal(t, "What is OWASP?", res.RetrievalQuery)
	assert.Equal(t, "What is OWASP?", search.lastReq.Query)
	assert.Empty(t, complete.lastPrompt, "no rewrite call expected")
	assert.Contains(t, res.Prompt, "What is OWASP?")
	assert.Contains(t, res.Context, "a snippet")
}

func TestBuildWithHistoryRewritesRetrievalQuery(t *testing.T) {
	search := &mockSearcher{}
	complete := &mockCompleter{
		completeFunc: func(_ context.Context, _, prompt string) (string, error) {
			assert.Contains(t, prompt, "first question")
			assert.NotContains(t, prompt, "an answer", "rewrite sees only user turns")
			return "  standalone query \n", nil
		},
	}
	b := NewBuilder(search, complete)

	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "first question"},
		{Role: domain.RoleAssistant, Content: "an answer"},
	}
	res, err := b.Build(context.Background(), Input{
		Question:     "and then?",
		History:      history,
		UseHistory:   true,
		Service:      "docs_svc",
		SearchColumn: "chunk",
		Model:        "mistral-large2",
		Chunks:       5,
	})
	require.NoError(t, err)

	assert.Equal(t, "standalone query", res.RetrievalQuery)
	assert.Equal(t, "standalone query", search.lastReq.Query)
	// final prompt carries the original question and the full history
	assert.Contains(t, res.Prompt, "<question>\nand then?\n</question>")
	assert.Contains(t, res.Prompt, "Assistant: an answer")
}

func TestBuildUseHistoryDisabled(t *testing.T) {
	search := &mockSearcher{}
	complete := &mockCompleter{}
	b := NewBuilder(search, complete)

	history := []domain.Turn{{Role: domain.RoleUser, Content: "earlier"}}
	res, err := b.Build(context.Background(), Input{
		Question:     "What is OWASP?",
		History:      history,
		UseHistory:   false,
		Service:      "docs_svc",
		SearchColumn: "chunk",
		Chunks:       5,
	})
	require.NoError(t, err)

	assert.Equal(t, "What is OWASP?", res.RetrievalQuery)
	assert.Empty(t, complete.lastPrompt)
	assert.Contains(t, res.Prompt, "<chat_history>\n\n</chat_history>")
}

func TestBuildPropagatesSearchError(t *testing.T) {
	search := &mockSearcher{
		searchFunc: func(_ context.Context, _ domain.SearchRequest) ([]domain.Record, error) {
			return nil, &domain.UpstreamError{Op: "search", Status: 500}
		},
	}
	b := NewBuilder(search, &mockCompleter{})

	_, err := b.Build(context.Background(), Input{Question: "q", Service: "docs_svc", SearchColumn: "chunk", Chunks: 5})
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestBuildContextBlockCount(t *testing.T) {
	search := &mockSearcher{
		searchFunc: func(_ context.Context, req domain.SearchRequest) ([]domain.Record, error) {
			records := make([]domain.Record, 8)
			for i := range records {
				records[i] = domain.Record{"chunk": "snippet"}
			}
			return records, nil
		},
	}
	b := NewBuilder(search, &mockCompleter{})

	res, err := b.Build(context.Background(), Input{Question: "q", Service: "docs_svc", SearchColumn: "chunk", Chunks: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(res.Context, "Context "))
	assert.Contains(t, res.Context, "Context 5:")
	assert.NotContains(t, res.Context, "Context 6:")
}
