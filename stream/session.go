package stream

import (
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/distill"
	"github.com/google/uuid"
)

// Session is the state of one outgoing request. An [Aggregator] owns it for
// the duration of a run; the accessors are safe to call from other
// goroutines, for example to render progress.
type Session struct {
	ID       string
	Provider distill.Provider
	Model    string

	mu         sync.Mutex
	buffer     strings.Builder
	state      distill.SessionState
	retryCount int
	lastEmit   time.Time
	lines      []string
}

// NewSession creates an idle session with a fresh ID.
func NewSession(provider distill.Provider, model string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Provider: provider,
		Model:    model,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() distill.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RetryCount returns how many consecutive decode attempts have failed for
// the fragment currently held.
func (s *Session) RetryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryCount
}

// Buffer returns the text accumulated so far.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.String()
}

// LastEmit returns when the last progressive update was produced.
func (s *Session) LastEmit() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEmit
}

// Lines returns the raw transport lines seen so far. Lines are only kept
// when the aggregator runs with [WithCapture].
func (s *Session) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *Session) appendText(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.WriteString(text)
	s.retryCount = 0
	if s.state == distill.SessionRetrying {
		s.state = distill.SessionStreaming
	}
	return s.buffer.Len()
}

func (s *Session) recordLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *Session) setState(state distill.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// failDecode counts a failed decode attempt and returns the new count.
func (s *Session) failDecode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCount++
	s.state = distill.SessionRetrying
	return s.retryCount
}

func (s *Session) resetRetries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCount = 0
	if s.state == distill.SessionRetrying {
		s.state = distill.SessionStreaming
	}
}

func (s *Session) setLastEmit(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmit = t
}
