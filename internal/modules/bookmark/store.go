// README: Bookmark persistence contract plus the in-memory implementation.
package bookmark

import (
	"context"
	"sync"
)

// Store persists each user's whole mapping. Get on an unknown user returns an
// empty map. Implementations need not serialize writers; Service does.
type Store interface {
	Get(ctx context.Context, userID string) (map[string]string, error)
	Set(ctx context.Context, userID string, bookmarks map[string]string) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.users[userID]), nil
}

func (s *MemoryStore) Set(_ context.Context, userID string, bookmarks map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(bookmarks) == 0 {
		delete(s.users, userID)
		return nil
	}
	s.users[userID] = copyMap(bookmarks)
	return nil
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
