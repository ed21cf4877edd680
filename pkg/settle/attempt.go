package settle

import "time"

// AttemptState indicates a resolution attempt's lifecycle state.
type AttemptState uint8

const (
	// AttemptPending indicates the resolver is still running.
	AttemptPending AttemptState = iota

	// AttemptResolved indicates the attempt succeeded while still the
	// latest and its result was applied to the stabilized output.
	AttemptResolved

	// AttemptSuperseded indicates the attempt completed after a newer
	// attempt had started; its outcome was discarded.
	AttemptSuperseded

	// AttemptFailed indicates the resolver returned an error while the
	// attempt was still the latest; the failure was surfaced.
	AttemptFailed
)

// String returns a human-readable attempt state name.
func (s AttemptState) String() string {
	switch s {
	case AttemptPending:
		return "PENDING"
	case AttemptResolved:
		return "RESOLVED"
	case AttemptSuperseded:
		return "SUPERSEDED"
	case AttemptFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Attempt is the bookkeeping record of one resolution attempt.
type Attempt[T comparable] struct {
	// Seq is the attempt's sequence number. Sequence numbers increase
	// monotonically per stabilizer, starting at 1.
	Seq uint64

	// Input is the value the attempt resolved.
	Input T

	// State is the attempt's lifecycle state.
	State AttemptState

	// StartedAt is when the resolver was invoked.
	StartedAt time.Time

	// EndedAt is when the attempt reached a terminal state.
	// Zero while pending.
	EndedAt time.Time

	// Err is the resolver error, if any. Superseded attempts keep
	// their error for inspection even though it is never surfaced.
	Err error
}

// Latency returns the attempt duration, or zero while pending.
func (a Attempt[T]) Latency() time.Duration {
	if a.EndedAt.IsZero() {
		return 0
	}
	return a.EndedAt.Sub(a.StartedAt)
}
