package examples

import (
	"context"
	"sync"
	"time"
)

// Scripted resolves inputs according to a configurable script: per-input
// results, failures, and latencies, with a default latency for inputs
// the script does not mention. Inputs without a scripted result resolve
// to themselves.
//
// Every invocation is recorded, so tests and the scenario harness can
// assert exactly which inputs reached the resolver and when. Scripted is
// safe for concurrent use; overlapping attempts record independently.
type Scripted struct {
	mu sync.Mutex

	defaultLatency time.Duration
	results        map[string]string
	failures       map[string]error
	latencies      map[string]time.Duration

	invocations []Invocation
}

// Invocation records one resolver call.
type Invocation struct {
	// Input is the value the resolver was called with.
	Input string

	// At is when the call arrived.
	At time.Time
}

// NewScripted creates a Scripted resolver with no script: every input
// echoes back immediately.
func NewScripted() *Scripted {
	return &Scripted{
		results:   make(map[string]string),
		failures:  make(map[string]error),
		latencies: make(map[string]time.Duration),
	}
}

// SetDefaultLatency sets the latency for inputs without a per-input
// latency.
func (s *Scripted) SetDefaultLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultLatency = d
}

// SetResult scripts the result for an input.
func (s *Scripted) SetResult(input, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[input] = result
}

// SetFailure scripts a failure for an input.
func (s *Scripted) SetFailure(input string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[input] = err
}

// ClearFailure removes a scripted failure.
func (s *Scripted) ClearFailure(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, input)
}

// SetLatency scripts the latency for an input.
func (s *Scripted) SetLatency(input string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latencies[input] = d
}

// Resolve is the settle.Resolver. It records the invocation, sleeps the
// scripted latency (honoring ctx), then returns the scripted outcome.
func (s *Scripted) Resolve(ctx context.Context, input string) (string, error) {
	s.mu.Lock()
	s.invocations = append(s.invocations, Invocation{Input: input, At: time.Now()})
	latency, ok := s.latencies[input]
	if !ok {
		latency = s.defaultLatency
	}
	failure := s.failures[input]
	result, hasResult := s.results[input]
	s.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if failure != nil {
		return "", failure
	}
	if hasResult {
		return result, nil
	}
	return input, nil
}

// Invocations returns a copy of all recorded invocations in call order.
func (s *Scripted) Invocations() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Invocation, len(s.invocations))
	copy(out, s.invocations)
	return out
}

// Inputs returns the recorded inputs in call order.
func (s *Scripted) Inputs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.invocations))
	for i, inv := range s.invocations {
		out[i] = inv.Input
	}
	return out
}

// CallCount returns the number of recorded invocations.
func (s *Scripted) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invocations)
}

// Reset clears the recorded invocations, keeping the script.
func (s *Scripted) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invocations = nil
}
