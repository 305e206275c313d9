// Package conversation holds the session-scoped chat transcript. The store is
// append-only: turns are never reordered or edited, and Clear is the only
// operation that removes them. One interactive session owns one store; there
// is a single writer, so no locking.
package conversation

import (
	"strings"

	"intellibot/internal/domain"
)

// Store is an ordered sequence of turns plus the session's pinned messages.
type Store struct {
	turns  []domain.Turn
	pinned []string
}

// New returns an empty conversation store.
func New() *Store {
	return &Store{}
}

// Append adds a turn to the end of the transcript.
func (s *Store) Append(turn domain.Turn) {
	s.turns = append(s.turns, turn)
}

// Clear empties the transcript and the pinned messages.
func (s *Store) Clear() {
	s.turns = nil
	s.pinned = nil
}

// Len returns the number of turns.
func (s *Store) Len() int { return len(s.turns) }

// Turns returns a copy of the transcript in chronological order.
func (s *Store) Turns() []domain.Turn {
	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Window returns the history window ending just before the most recent turn:
// of the last n turns, all but the final one. Transcripts of length 0 or 1
// yield an empty window.
func (s *Store) Window(n int) []domain.Turn {
	return Window(s.turns, n)
}

// Window applies the history-window policy to any turn sequence: of the last
// n turns, all but the final one — at most n-1 turns. Sequences of length 0
// or 1 yield an empty window.
func Window(turns []domain.Turn, n int) []domain.Turn {
	if n <= 0 || len(turns) < 2 {
		return nil
	}
	end := len(turns) - 1
	start := len(turns) - n
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil
	}
	out := make([]domain.Turn, end-start)
	copy(out, turns[start:end])
	return out
}

// Transcript renders the full conversation as plain text, one turn per line,
// formatted "<Role>: <content>" in chronological order.
func (s *Store) Transcript() string {
	lines := make([]string, 0, len(s.turns))
	for _, t := range s.turns {
		lines = append(lines, t.Role.Title()+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// Pin saves a message to the session's pinned list.
func (s *Store) Pin(content string) {
	s.pinned = append(s.pinned, content)
}

// Pinned returns a copy of the pinned messages.
func (s *Store) Pinned() []string {
	out := make([]string, len(s.pinned))
	copy(out, s.pinned)
	return out
}
