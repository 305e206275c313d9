package domain

import "context"

// Searcher is the retrieval side of the backend: service discovery plus queries.
// Implementations perform no ranking of their own; backend order is preserved.
type Searcher interface {
	Services(ctx context.Context) ([]ServiceDescriptor, error)
	Search(ctx context.Context, req SearchRequest) ([]Record, error)
}

// Completer is a hosted text-generation model: one blocking request per call.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}
