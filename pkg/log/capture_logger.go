package log

import "sync"

// CaptureLogger keeps events in memory.
// Used by tests and interactive tools that inspect recent activity.
// It is safe for concurrent use from multiple goroutines.
type CaptureLogger struct {
	mu     sync.Mutex
	events []Event
}

// NewCaptureLogger creates an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

// Log appends the event to the in-memory buffer.
func (c *CaptureLogger) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of all captured events in capture order.
func (c *CaptureLogger) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// EventsByCategory returns a copy of captured events matching the category.
func (c *CaptureLogger) EventsByCategory(cat Category) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards all captured events.
func (c *CaptureLogger) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// Compile-time interface satisfaction check.
var _ Logger = (*CaptureLogger)(nil)
