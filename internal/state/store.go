package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tag identifies one fetch. Only the most recently issued tag may apply its
// result to a Store.
type Tag struct {
	Instance string
	Token    uuid.UUID
}

// Snapshot represents the latest data a view has for one instance.
type Snapshot[T any] struct {
	Instance            string
	Data                T
	HasData             bool
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed fetches
}

// IsOffline returns true when the instance has been unreachable for multiple
// fetches in a row.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates fetch results for a single view.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
	pending  Tag
	clone    func(T) T
	now      func() time.Time
}

// NewStore builds a Store. clone copies data on the way in and out; nil keeps
// values as they are.
func NewStore[T any](clone func(T) T) *Store[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Store[T]{clone: clone, now: time.Now}
}

// Begin issues a tag for a new fetch against inst and marks the store as
// loading. Any earlier tag becomes stale. Switching to a different instance
// discards data fetched from the previous one.
func (s *Store[T]) Begin(inst string) Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Instance != inst {
		s.snapshot = Snapshot[T]{Instance: inst}
	}
	s.snapshot.Loading = true
	s.pending = Tag{Instance: inst, Token: uuid.New()}
	return s.pending
}

// Apply records the result of the fetch identified by tag. It reports false
// and changes nothing when tag is stale. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store[T]) Apply(tag Tag, data T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tag != s.pending {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.LastUpdated = s.now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Data = s.clone(data)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Current reports whether tag is the latest issued tag.
func (s *Store[T]) Current(tag Tag) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tag == s.pending
}

// Snapshot returns a copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Data = s.clone(s.snapshot.Data)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// CloneSlice copies a slice so callers cannot mutate stored data.
func CloneSlice[E any](items []E) []E {
	if len(items) == 0 {
		return nil
	}
	dup := make([]E, len(items))
	copy(dup, items)
	return dup
}
