package cell

import "sync"

// Cell is a mutable holder for a single value.
// Mutation is never observed by anything: no watcher, no notification, no
// reactive trigger. Callers that need change propagation want Signal.
// Cell is safe for concurrent use.
type Cell[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewCell creates a Cell holding the initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the current value.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// Swap replaces the current value and returns the previous one.
func (c *Cell[T]) Swap(value T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.value
	c.value = value
	return old
}

// Update replaces the value with fn(current). The function runs under the
// cell's lock and must not call back into the cell.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = fn(c.value)
}
