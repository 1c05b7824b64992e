// Package cachesync keeps a client-held cache of server collections
// consistent with the outcome of remote mutations. The cache only ever
// holds server-confirmed state: mutations patch it after the server
// acknowledges, never before.
package cachesync

import "sync"

// Key names one cache partition, a logical resource collection such as
// "habits" or "completions".
type Key string

type entry struct {
	value any
	stale bool
}

// Store is an explicit, session-scoped cache. Construct one at login,
// drop it at logout; nothing here is package-level state.
type Store struct {
	mu    sync.RWMutex
	parts map[Key]*entry
}

func NewStore() *Store {
	return &Store{
		parts: make(map[Key]*entry),
	}
}

// Get returns the cached value for key. The second return is false when
// the partition has never been populated.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.parts[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parts[key] = &entry{value: value}
}

// Invalidate marks the partition stale without dropping its value, so
// readers can keep showing the last confirmed state while a refetch is
// pending.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.parts[key]; ok {
		e.stale = true
	}
}

// IsStale reports whether the partition needs a refetch. An absent
// partition is stale by definition.
func (s *Store) IsStale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.parts[key]
	if !ok {
		return true
	}
	return e.stale
}

// Value is a typed read of one partition. Returns the zero value and
// false when the partition is missing or holds a different type.
func Value[T any](s *Store, key Key) (T, bool) {
	var zero T

	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}

	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
