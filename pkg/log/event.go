package log

import (
	"time"
)

// Event represents one captured observation event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ObservationID uniquely identifies the observation (UUID).
	ObservationID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Seq is the resolution attempt sequence number, for attempt-scoped
	// events (attempt, output, failure). Zero otherwise.
	Seq uint64 `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Input       *InputEvent       `cbor:"5,keyasint,omitempty"`  // Observed input values
	Timer       *TimerEvent       `cbor:"6,keyasint,omitempty"`  // Quiet-period timer transitions
	Attempt     *AttemptEvent     `cbor:"7,keyasint,omitempty"`  // Attempt lifecycle
	Output      *OutputEvent      `cbor:"8,keyasint,omitempty"`  // Applied outputs
	Failure     *FailureEvent     `cbor:"9,keyasint,omitempty"`  // Surfaced failures
	Observation *ObservationEvent `cbor:"10,keyasint,omitempty"` // Observation lifecycle
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryInput indicates an observed input value.
	CategoryInput Category = 0
	// CategoryTimer indicates a quiet-period timer transition.
	CategoryTimer Category = 1
	// CategoryAttempt indicates a resolution attempt state change.
	CategoryAttempt Category = 2
	// CategoryOutput indicates an applied stabilized output.
	CategoryOutput Category = 3
	// CategoryFailure indicates a surfaced resolution failure.
	CategoryFailure Category = 4
	// CategoryObservation indicates an observation lifecycle event.
	CategoryObservation Category = 5
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "INPUT"
	case CategoryTimer:
		return "TIMER"
	case CategoryAttempt:
		return "ATTEMPT"
	case CategoryOutput:
		return "OUTPUT"
	case CategoryFailure:
		return "FAILURE"
	case CategoryObservation:
		return "OBSERVATION"
	default:
		return "UNKNOWN"
	}
}

// InputEvent captures one value passed to the observation.
// Values are recorded as their string representation so any input type
// can be traced.
type InputEvent struct {
	// Value is the string form of the observed value.
	Value string `cbor:"1,keyasint"`

	// Ignored is true when the value equaled the previously observed one
	// and therefore did not count as a change.
	Ignored bool `cbor:"2,keyasint,omitempty"`
}

// TimerEvent captures a quiet-period timer transition.
type TimerEvent struct {
	// Kind of transition.
	Kind TimerKind `cbor:"1,keyasint"`

	// QuietPeriod is the configured quiet period.
	// Stored as nanoseconds.
	QuietPeriod time.Duration `cbor:"2,keyasint"`
}

// TimerKind indicates the type of timer transition.
type TimerKind uint8

const (
	// TimerArmed indicates the timer was started for the first change.
	TimerArmed TimerKind = 0
	// TimerRestarted indicates a pending timer was cancelled and rearmed.
	TimerRestarted TimerKind = 1
	// TimerStopped indicates the timer was cancelled without firing.
	TimerStopped TimerKind = 2
	// TimerFired indicates the quiet period elapsed.
	TimerFired TimerKind = 3
)

// String returns the timer kind name.
func (k TimerKind) String() string {
	switch k {
	case TimerArmed:
		return "ARMED"
	case TimerRestarted:
		return "RESTARTED"
	case TimerStopped:
		return "STOPPED"
	case TimerFired:
		return "FIRED"
	default:
		return "UNKNOWN"
	}
}

// AttemptEvent captures a resolution attempt state change.
type AttemptEvent struct {
	// State the attempt entered.
	State AttemptState `cbor:"1,keyasint"`

	// Input is the string form of the value the attempt resolves.
	Input string `cbor:"2,keyasint"`

	// Latency is the duration from attempt start to completion.
	// Set on terminal states only. Stored as nanoseconds.
	Latency *time.Duration `cbor:"3,keyasint,omitempty"`

	// Error is the resolver error message, for failed attempts
	// (including failures that were superseded and never surfaced).
	Error string `cbor:"4,keyasint,omitempty"`
}

// AttemptState indicates a resolution attempt's lifecycle state.
type AttemptState uint8

const (
	// AttemptPending indicates the resolver was invoked.
	AttemptPending AttemptState = 0
	// AttemptResolved indicates the attempt succeeded and was applied.
	AttemptResolved AttemptState = 1
	// AttemptSuperseded indicates the attempt completed after a newer
	// attempt started; its result was discarded.
	AttemptSuperseded AttemptState = 2
	// AttemptFailed indicates the resolver returned an error while the
	// attempt was still the latest.
	AttemptFailed AttemptState = 3
)

// String returns the attempt state name.
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

// OutputEvent captures an applied stabilized output.
type OutputEvent struct {
	// Value is the string form of the applied result.
	Value string `cbor:"1,keyasint"`

	// PrevSeq is the sequence number of the previously applied attempt
	// (zero if this was the first application).
	PrevSeq uint64 `cbor:"2,keyasint,omitempty"`
}

// FailureEvent captures a resolution failure surfaced to observers.
// Failures of superseded attempts are never surfaced and appear only as
// AttemptEvent records.
type FailureEvent struct {
	// Input is the string form of the value whose resolution failed.
	Input string `cbor:"1,keyasint"`

	// Message is the resolver error message.
	Message string `cbor:"2,keyasint"`
}

// ObservationEvent captures observation lifecycle changes.
type ObservationEvent struct {
	// Kind of lifecycle change.
	Kind ObservationKind `cbor:"1,keyasint"`

	// QuietPeriod is the configured quiet period.
	// Stored as nanoseconds.
	QuietPeriod time.Duration `cbor:"2,keyasint"`

	// Policy is the configured overlap policy name.
	Policy string `cbor:"3,keyasint,omitempty"`
}

// ObservationKind indicates the type of observation lifecycle change.
type ObservationKind uint8

const (
	// ObservationStarted indicates the observation was created.
	ObservationStarted ObservationKind = 0
	// ObservationClosed indicates the observation was torn down.
	ObservationClosed ObservationKind = 1
)

// String returns the observation kind name.
func (k ObservationKind) String() string {
	switch k {
	case ObservationStarted:
		return "STARTED"
	case ObservationClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
