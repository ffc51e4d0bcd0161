// README: Bookmark service; every mutation for one user runs under that user's lock.
package bookmark

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type Service struct {
	store Store
	locks *userLocks
}

func NewService(store Store) *Service {
	return &Service{store: store, locks: newUserLocks()}
}

// Add saves location under label, or under the smallest unused positive
// integer when label is empty. An existing label is overwritten.
func (s *Service) Add(ctx context.Context, userID, location, label string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", ErrEmptyLocation
	}
	label = strings.TrimSpace(label)

	unlock := s.locks.lock(userID)
	defer unlock()

	m, err := s.store.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load bookmarks: %w", err)
	}
	if m == nil {
		m = make(map[string]string)
	}
	if label == "" {
		label = nextLabel(m)
	}
	m[label] = location
	if err := s.store.Set(ctx, userID, m); err != nil {
		return "", fmt.Errorf("save bookmarks: %w", err)
	}
	return label, nil
}

func (s *Service) Delete(ctx context.Context, userID, label string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	m, err := s.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}
	if _, ok := m[label]; !ok {
		return ErrNotFound
	}
	delete(m, label)
	if err := s.store.Set(ctx, userID, m); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}

// DeleteAll removes every bookmark and reports how many there were.
func (s *Service) DeleteAll(ctx context.Context, userID string) (int, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	m, err := s.store.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load bookmarks: %w", err)
	}
	if len(m) == 0 {
		return 0, nil
	}
	if err := s.store.Set(ctx, userID, map[string]string{}); err != nil {
		return 0, fmt.Errorf("save bookmarks: %w", err)
	}
	return len(m), nil
}

// List returns numeric labels in ascending order, then the rest lexicographically.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	m, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	out := make([]Entry, 0, len(m))
	for label, loc := range m {
		out = append(out, Entry{Label: label, Location: loc})
	}
	sort.Slice(out, func(i, j int) bool { return labelLess(out[i].Label, out[j].Label) })
	return out, nil
}

func nextLabel(m map[string]string) string {
	for i := 1; ; i++ {
		l := strconv.Itoa(i)
		if _, taken := m[l]; !taken {
			return l
		}
	}
}

func labelLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// userLocks hands out one mutex per user, dropped once no caller holds it.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[string]*refMutex)}
}

func (l *userLocks) lock(userID string) (unlock func()) {
	l.mu.Lock()
	rm, ok := l.m[userID]
	if !ok {
		rm = &refMutex{}
		l.m[userID] = rm
	}
	rm.refs++
	l.mu.Unlock()

	rm.Lock()
	return func() {
		rm.Unlock()
		l.mu.Lock()
		rm.refs--
		if rm.refs == 0 {
			delete(l.m, userID)
		}
		l.mu.Unlock()
	}
}
