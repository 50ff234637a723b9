package session

import (
	"context"
	"sync"

	"github.com/stocklens/stocklens/pkg/logging"
)

const (
	DefaultMaxTurns    = 10
	DefaultMaxSessions = 100
)

// MemoryStore is a process-lifetime Store. Sessions live until the process
// exits or the session cap pushes them out oldest-inserted-first. The cap is
// a simple bound, not an LRU: an actively used session is still the eviction
// candidate if it was inserted first.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]Turn
	order    []string // insertion order, eviction candidates from the front

	maxTurns    int
	maxSessions int
	logger      *logging.Logger
}

// NewMemoryStore creates an in-memory session store. Non-positive caps fall
// back to the defaults.
func NewMemoryStore(maxTurns, maxSessions int, logger *logging.Logger) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryStore{
		sessions:    make(map[string][]Turn),
		maxTurns:    maxTurns,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// GetOrCreate resolves an existing session or mints a new one.
func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (string, []Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if turns, ok := s.sessions[id]; ok {
			return id, cloneTurns(turns), nil
		}
	}
	// Unknown or absent ids mint a fresh session; the caller adopts the
	// returned id.
	id = NewID()
	s.sessions[id] = nil
	s.order = append(s.order, id)
	s.evictLocked()
	return id, nil, nil
}

// Append adds turns to a session and trims to the turn cap. Appending to an
// unknown id creates the session.
func (s *MemoryStore) Append(_ context.Context, id string, turns ...Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[id]
	if !ok {
		s.order = append(s.order, id)
	}
	updated := append(existing, turns...)
	if len(updated) > s.maxTurns {
		updated = updated[len(updated)-s.maxTurns:]
	}
	s.sessions[id] = updated
	s.evictLocked()
	return nil
}

// History returns a copy of the session's turns, nil when unknown.
func (s *MemoryStore) History(_ context.Context, id string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneTurns(turns), nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictLocked removes oldest-inserted sessions while over the cap.
// Eviction is silent maintenance, logged at debug only.
func (s *MemoryStore) evictLocked() {
	for len(s.sessions) > s.maxSessions && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		if _, ok := s.sessions[oldest]; !ok {
			continue
		}
		delete(s.sessions, oldest)
		s.logger.Debug("session evicted", "session_id", oldest, "live_sessions", len(s.sessions))
	}
}

func cloneTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
