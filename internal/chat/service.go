// Package chat orchestrates one question/answer cycle: normalize the
// question, build the prompt (retrieval included), call the completion
// service, and append both turns to the transcript. A failed cycle appends
// nothing; the session stays usable for the next question.
package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"intellibot/internal/conversation"
	"intellibot/internal/domain"
	"intellibot/internal/prompt"
)

// Settings is the widget-mutable half of the session configuration. It is
// owned by one session and mutated only by direct user interaction.
type Settings struct {
	Service      string
	Topic        string
	Model        string
	Chunks       int
	HistoryTurns int
	UseHistory   bool
	Debug        bool
	DarkMode     bool
}

// Answer is the outcome of one successful question/answer cycle.
type Answer struct {
	Text           string
	Context        string
	RetrievalQuery string
}

// Service runs question/answer cycles against the two gateways.
type Service struct {
	store    *conversation.Store
	builder  *prompt.Builder
	complete domain.Completer
	services []domain.ServiceDescriptor
	log      *zap.Logger
}

// New creates the chat service. The service descriptor list is the one
// discovered at session start; it is read-only afterward.
func New(store *conversation.Store, builder *prompt.Builder, complete domain.Completer, services []domain.ServiceDescriptor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		builder:  builder,
		complete: complete,
		services: services,
		log:      log,
	}
}

// Store exposes the session transcript.
func (s *Service) Store() *conversation.Store { return s.store }

// Services returns the descriptors discovered at session start.
func (s *Service) Services() []domain.ServiceDescriptor { return s.services }

// Ask runs one full cycle for the question using the given settings. Single
// quotes are stripped from the question before any further processing. On any
// gateway failure the transcript is left untouched and the error is returned
// for the caller to surface.
func (s *Service) Ask(ctx context.Context, question string, settings Settings) (Answer, error) {
	question = strings.ReplaceAll(question, "'", "")

	descriptor, ok := s.lookup(settings.Service)
	if !ok {
		return Answer{}, &domain.NotFoundError{Service: settings.Service}
	}

	// History window over the transcript as it will look with the pending
	// question appended: the last turns before this question.
	pending := append(s.store.Turns(), domain.Turn{Role: domain.RoleUser, Content: question})
	history := conversation.Window(pending, settings.HistoryTurns)

	result, err := s.builder.Build(ctx, prompt.Input{
		Question:     question,
		History:      history,
		UseHistory:   settings.UseHistory,
		Service:      descriptor.Name,
		SearchColumn: descriptor.SearchColumn,
		Model:        settings.Model,
		Chunks:       settings.Chunks,
	})
	if err != nil {
		s.log.Warn("prompt build failed", zap.String("service", settings.Service), zap.Error(err))
		return Answer{}, err
	}
	s.log.Debug("prompt assembled",
		zap.String("retrieval_query", result.RetrievalQuery),
		zap.Int("context_bytes", len(result.Context)),
	)

	text, err := s.complete.Complete(ctx, settings.Model, result.Prompt)
	if err != nil {
		s.log.Warn("completion failed", zap.String("model", settings.Model), zap.Error(err))
		return Answer{}, err
	}

	s.store.Append(domain.Turn{Role: domain.RoleUser, Content: question})
	s.store.Append(domain.Turn{Role: domain.RoleAssistant, Content: text})
	s.log.Info("turn completed", zap.Int("transcript_len", s.store.Len()))

	return Answer{Text: text, Context: result.Context, RetrievalQuery: result.RetrievalQuery}, nil
}

// Summarize condenses the whole transcript into key bullet points via the
// completion service.
func (s *Service) Summarize(ctx context.Context, settings Settings) (string, error) {
	text, err := s.complete.Complete(ctx, settings.Model, prompt.SummaryPrompt(s.store.Transcript()))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *Service) lookup(name string) (domain.ServiceDescriptor, bool) {
	for _, d := range s.services {
		if d.Name == name {
			return d, true
		}
	}
	return domain.ServiceDescriptor{}, false
}
