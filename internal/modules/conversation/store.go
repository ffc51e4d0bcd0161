// README: Bounded per-user conversation log held in memory for the process lifetime.
package conversation

import "sync"

// Store keeps the most recent turns for every user. History is lost on
// restart. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	capacity int
	logs     map[string][]Entry
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, logs: make(map[string][]Entry)}
}

// Record appends a turn for userID and evicts the oldest turns past capacity.
func (s *Store) Record(userID string, role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.logs[userID], Entry{Role: role, Text: text})
	if over := len(log) - s.capacity; over > 0 {
		// Copy so the evicted prefix does not pin the old backing array.
		trimmed := make([]Entry, s.capacity)
		copy(trimmed, log[over:])
		log = trimmed
	}
	s.logs[userID] = log
}

// History returns a copy of the user's turns, oldest first.
func (s *Store) History(userID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[userID]
	out := make([]Entry, len(log))
	copy(out, log)
	return out
}

// Clear drops every turn recorded for userID.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, userID)
}

func (s *Store) Capacity() int {
	return s.capacity
}
