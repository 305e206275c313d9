package prompt

import (
	"context"
	"strings"

	"intellibot/internal/domain"
)

// Input carries everything the builder needs for one question.
type Input struct {
	Question     string
	History      []domain.Turn
	UseHistory   bool
	Service      string
	SearchColumn string
	Model        string
	Chunks       int
}

// Result is the assembled prompt plus the intermediate values the operator
// may want to inspect.
type Result struct {
	Prompt         string
	Context        string
	RetrievalQuery string
}

// Builder composes the retrieval query, runs retrieval, and assembles the
// final answer prompt.
type Builder struct {
	search   domain.Searcher
	complete domain.Completer
}

// NewBuilder creates a prompt builder over the two gateways.
func NewBuilder(search domain.Searcher, complete domain.Completer) *Builder {
	return &Builder{search: search, complete: complete}
}

// Build produces the final prompt for a question. When history is in play the
// retrieval query is a history-aware rewrite of the question; the final prompt
// always carries the original, un-rewritten question.
func (b *Builder) Build(ctx context.Context, in Input) (Result, error) {
	retrievalQuery := in.Question
	if in.UseHistory && len(in.History) > 0 {
		rewritten, err := b.complete.Complete(ctx, in.Model, RewritePrompt(UserHistory(in.History), in.Question))
		if err != nil {
			return Result{}, err
		}
		retrievalQuery = strings.TrimSpace(rewritten)
	}

	records, err := b.search.Search(ctx, domain.SearchRequest{
		Service: in.Service,
		Query:   retrievalQuery,
		Columns: []string{in.SearchColumn},
		Limit:   in.Chunks,
	})
	if err != nil {
		return Result{}, err
	}
	contextText := Context(records, in.SearchColumn, in.Chunks)

	var historyText string
	if in.UseHistory {
		historyText = JoinedHistory(in.History)
	}

	return Result{
		Prompt:         AnswerPrompt(historyText, contextText, in.Question),
		Context:        contextText,
		RetrievalQuery: retrievalQuery,
	}, nil
}
