package cell

import "sync"

// Watcher is notified when a signal's value changes.
type Watcher[T comparable] interface {
	// OnValueChanged is called after the signal moved from old to new.
	// The version increments by one per real change.
	OnValueChanged(old, new T, version uint64)
}

// Signal is an observable value with equality-gated change detection.
// Setting an equal value is not a change: the version stays put and no
// watcher is notified. Signal is safe for concurrent use.
type Signal[T comparable] struct {
	mu       sync.RWMutex
	value    T
	version  uint64
	watchers []Watcher[T]
}

// NewSignal creates a Signal holding the initial value at version 0.
func NewSignal[T comparable](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version returns the number of changes applied so far.
func (s *Signal[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set updates the value. Returns true if the value actually changed.
// Watchers are notified outside the signal's lock, in subscription order.
func (s *Signal[T]) Set(value T) bool {
	s.mu.Lock()
	if s.value == value {
		s.mu.Unlock()
		return false
	}
	old := s.value
	s.value = value
	s.version++
	version := s.version
	watchers := make([]Watcher[T], len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, w := range watchers {
		w.OnValueChanged(old, value, version)
	}
	return true
}

// Watch adds a watcher for change notifications.
func (s *Signal[T]) Watch(w Watcher[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, w)
}

// Unwatch removes a watcher.
func (s *Signal[T]) Unwatch(w Watcher[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.watchers {
		if existing == w {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			return
		}
	}
}
