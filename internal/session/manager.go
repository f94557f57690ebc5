package session

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arul-selvam/steel-quotes/internal/entity"
	"github.com/arul-selvam/steel-quotes/internal/quote"
)

// historyLimit caps the rolling conversation context handed to the
// extraction service.
const historyLimit = 10

// Session owns exactly one QuoteDraft for one conversation. All mutation of
// the draft must happen while holding the session lock; the conversation
// driver takes it for the duration of each message, which is the
// one-mutation-at-a-time guarantee the quote package relies on.
type Session struct {
	ID    uuid.UUID
	Draft *entity.QuoteDraft

	// AskingField tracks which field the assistant is currently prompting
	// for ("terms_payment", "address", ...). Empty when not prompting.
	AskingField string

	// askedDetails records optional customer fields already prompted for,
	// so a skipped detail is not asked again.
	askedDetails map[string]bool

	history  []string
	LastSeen time.Time

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// MarkAsked records that field was prompted for. Caller holds the session
// lock.
func (s *Session) MarkAsked(field string) {
	if s.askedDetails == nil {
		s.askedDetails = make(map[string]bool)
	}
	s.askedDetails[field] = true
}

// WasAsked reports whether field was already prompted for. Caller holds the
// session lock.
func (s *Session) WasAsked(field string) bool { return s.askedDetails[field] }

// ClearAsked forgets which fields were prompted for, so a fresh draft starts
// a fresh prompt cycle. Caller holds the session lock.
func (s *Session) ClearAsked() { s.askedDetails = nil }

// Snapshot returns an independent copy of the draft that is safe to read and
// serialize without the session lock. Slice fields are copied; pointer
// targets are never mutated in place by the merger, so sharing them is safe.
func (s *Session) Snapshot() entity.QuoteDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := *s.Draft
	d.Items = append([]entity.LineItem(nil), s.Draft.Items...)
	d.OutstandingFields = append([]string(nil), s.Draft.OutstandingFields...)
	return d
}

// Remember appends one utterance to the rolling context. Caller holds the
// session lock.
func (s *Session) Remember(utterance string) {
	s.history = append(s.history, utterance)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	s.LastSeen = time.Now().UTC()
}

// Context returns the rolling conversation context. Caller holds the session
// lock.
func (s *Session) Context() string {
	return strings.Join(s.history, "\n")
}

// Manager hands out and tracks sessions. Each session is independent; the
// manager's own lock only protects the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	logger   *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// Create starts a new conversation with an empty draft.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.New(),
		Draft:    quote.NewDraft(),
		LastSeen: time.Now().UTC(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Info("session.created", "session_id", s.ID)
	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Drop discards a session and its draft. Called after generation or on
// session expiry; an abandoned draft is just garbage.
func (m *Manager) Drop(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	m.logger.Info("session.dropped", "session_id", id)
}

// Sweep removes sessions idle longer than maxIdle and reports how many were
// dropped.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		m.logger.Info("session.sweep", "dropped", dropped, "remaining", len(m.sessions))
	}
	return dropped
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
