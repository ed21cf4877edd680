package settle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/settle-reactive/settle-go/pkg/log"
	"github.com/settle-reactive/settle-go/pkg/scope"
)

// Stabilizer defaults.
const (
	// DefaultQuietPeriod suits interactive input such as keystrokes.
	DefaultQuietPeriod = 300 * time.Millisecond

	// DefaultMaxHistory is the default attempt history capacity.
	DefaultMaxHistory = 32
)

// Stabilizer errors.
var (
	ErrNilResolver        = errors.New("nil resolver")
	ErrInvalidQuietPeriod = errors.New("invalid quiet period")
	ErrClosed             = errors.New("observation closed")
)

// Resolver maps one input value to an eventual result. The context is
// cancelled when the observation closes or, under PolicySingleFlight,
// when a newer attempt starts; long-running resolvers should honor it.
// The context carries the observation ID and the attempt sequence
// number (see pkg/scope).
type Resolver[T, R any] func(ctx context.Context, input T) (R, error)

// Config holds stabilizer configuration.
type Config struct {
	// QuietPeriod is how long the input must stay unchanged before the
	// resolver runs. Zero is valid and means every change resolves
	// immediately. Negative is invalid.
	QuietPeriod time.Duration

	// Policy controls overlapping resolver invocations.
	// Defaults to PolicyConcurrent.
	Policy Policy

	// MaxHistory bounds the attempt history ring.
	// Non-positive means DefaultMaxHistory.
	MaxHistory int

	// Logger captures observation events. Nil means no capture.
	Logger log.Logger

	// ObservationID identifies this observation in captured events.
	// Empty means a fresh UUID.
	ObservationID string
}

// Stabilizer debounces a changing input value and resolves it
// asynchronously, keeping only the latest result.
//
// All state is per instance; a Stabilizer is safe for concurrent use.
type Stabilizer[T comparable, R any] struct {
	mu sync.RWMutex

	// Immutable after construction
	resolver      Resolver[T, R]
	quietPeriod   time.Duration
	policy        Policy
	maxHistory    int
	logger        log.Logger
	observationID string

	// Observation context, parent of every attempt context.
	ctx    context.Context
	cancel context.CancelFunc

	// Last observed input
	input    T
	hasInput bool

	// Pending quiet-period timer. timerGen invalidates fires from
	// timers that were replaced after already expiring.
	timer    *time.Timer
	timerGen uint64

	// Sequencing
	nextSeq        uint64
	highestStarted uint64
	appliedSeq     uint64

	// Stabilized output
	output      R
	hasOutput   bool
	lastApplied Attempt[T]

	// In-flight bookkeeping
	inFlight      int
	attemptCancel context.CancelFunc

	// Attempt history ring, oldest first
	history []Attempt[T]

	observers []Observer[T, R]

	closed bool
}

// NewStabilizer creates a stabilizer with the given quiet period and
// default settings otherwise.
func NewStabilizer[T comparable, R any](resolver Resolver[T, R], quietPeriod time.Duration) (*Stabilizer[T, R], error) {
	return NewStabilizerWithConfig(resolver, Config{QuietPeriod: quietPeriod})
}

// NewStabilizerWithConfig creates a stabilizer with custom configuration.
func NewStabilizerWithConfig[T comparable, R any](resolver Resolver[T, R], cfg Config) (*Stabilizer[T, R], error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if cfg.QuietPeriod < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuietPeriod, cfg.QuietPeriod)
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	if cfg.ObservationID == "" {
		cfg.ObservationID = uuid.New().String()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Stabilizer[T, R]{
		resolver:      resolver,
		quietPeriod:   cfg.QuietPeriod,
		policy:        cfg.Policy,
		maxHistory:    cfg.MaxHistory,
		logger:        cfg.Logger,
		observationID: cfg.ObservationID,
		ctx:           ctx,
		cancel:        cancel,
		nextSeq:       1,
	}

	s.logger.Log(log.Event{
		Timestamp:     time.Now(),
		ObservationID: s.observationID,
		Category:      log.CategoryObservation,
		Observation: &log.ObservationEvent{
			Kind:        log.ObservationStarted,
			QuietPeriod: s.quietPeriod,
			Policy:      s.policy.String(),
		},
	})

	return s, nil
}

// ObservationID returns the observation identifier.
func (s *Stabilizer[T, R]) ObservationID() string {
	return s.observationID
}

// QuietPeriod returns the configured quiet period.
func (s *Stabilizer[T, R]) QuietPeriod() time.Duration {
	return s.quietPeriod
}

// Policy returns the configured overlap policy.
func (s *Stabilizer[T, R]) Policy() Policy {
	return s.policy
}

// Set observes a new input value.
//
// A value equal to the previously observed one is ignored. Otherwise
// the pending quiet-period timer (if any) is cancelled and a new one is
// armed; the resolver runs only if the quiet period then elapses with
// no further change. Set does nothing after Close.
func (s *Stabilizer[T, R]) Set(input T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if s.hasInput && s.input == input {
		s.logger.Log(log.Event{
			Timestamp:     time.Now(),
			ObservationID: s.observationID,
			Category:      log.CategoryInput,
			Input:         &log.InputEvent{Value: fmt.Sprint(input), Ignored: true},
		})
		return
	}

	s.input = input
	s.hasInput = true

	restarted := s.timer != nil
	if restarted {
		s.timer.Stop()
	}
	s.timerGen++
	gen := s.timerGen
	s.timer = time.AfterFunc(s.quietPeriod, func() { s.fire(gen) })

	s.logger.Log(log.Event{
		Timestamp:     time.Now(),
		ObservationID: s.observationID,
		Category:      log.CategoryInput,
		Input:         &log.InputEvent{Value: fmt.Sprint(input)},
	})

	kind := log.TimerArmed
	if restarted {
		kind = log.TimerRestarted
	}
	s.logger.Log(log.Event{
		Timestamp:     time.Now(),
		ObservationID: s.observationID,
		Category:      log.CategoryTimer,
		Timer:         &log.TimerEvent{Kind: kind, QuietPeriod: s.quietPeriod},
	})
}

// fire runs when a quiet-period timer expires. A stale generation means
// the timer was replaced between expiring and acquiring the lock; such
// fires are dropped so one quiet period triggers exactly one attempt.
func (s *Stabilizer[T, R]) fire(gen uint64) {
	s.mu.Lock()

	if s.closed || gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	seq := s.nextSeq
	s.nextSeq++
	s.highestStarted = seq
	s.inFlight++
	input := s.input
	startedAt := time.Now()

	s.recordAttemptLocked(Attempt[T]{
		Seq:       seq,
		Input:     input,
		State:     AttemptPending,
		StartedAt: startedAt,
	})

	if s.policy == PolicySingleFlight && s.attemptCancel != nil {
		s.attemptCancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	ctx = scope.ContextWithObservationID(ctx, s.observationID)
	ctx = scope.ContextWithAttemptSeq(ctx, seq)
	s.attemptCancel = cancel

	s.logger.Log(log.Event{
		Timestamp:     startedAt,
		ObservationID: s.observationID,
		Category:      log.CategoryTimer,
		Seq:           seq,
		Timer:         &log.TimerEvent{Kind: log.TimerFired, QuietPeriod: s.quietPeriod},
	})
	s.logger.Log(log.Event{
		Timestamp:     startedAt,
		ObservationID: s.observationID,
		Category:      log.CategoryAttempt,
		Seq:           seq,
		Attempt:       &log.AttemptEvent{State: log.AttemptPending, Input: fmt.Sprint(input)},
	})

	s.mu.Unlock()

	go func() {
		result, err := s.resolver(ctx, input)
		cancel()
		s.complete(seq, input, startedAt, result, err)
	}()
}

// complete handles a resolver return. Whether the outcome applies is
// decided here, under the lock, by comparing sequence numbers.
func (s *Stabilizer[T, R]) complete(seq uint64, input T, startedAt time.Time, result R, err error) {
	endedAt := time.Now()
	latency := endedAt.Sub(startedAt)

	s.mu.Lock()
	s.inFlight--

	if s.closed {
		s.mu.Unlock()
		return
	}

	// Superseded: a newer attempt started before this one completed.
	// Discarded unconditionally, success or failure.
	if seq < s.highestStarted {
		s.finishAttemptLocked(seq, AttemptSuperseded, endedAt, err)
		s.logAttemptLocked(seq, log.AttemptSuperseded, input, latency, err)
		s.mu.Unlock()
		return
	}

	if err != nil {
		s.finishAttemptLocked(seq, AttemptFailed, endedAt, err)
		s.logAttemptLocked(seq, log.AttemptFailed, input, latency, err)
		s.logger.Log(log.Event{
			Timestamp:     endedAt,
			ObservationID: s.observationID,
			Category:      log.CategoryFailure,
			Seq:           seq,
			Failure:       &log.FailureEvent{Input: fmt.Sprint(input), Message: err.Error()},
		})
		observers := s.copyObserversLocked()
		s.mu.Unlock()

		for _, o := range observers {
			o.OnResolutionFailed(seq, input, err)
		}
		return
	}

	prevSeq := s.appliedSeq
	s.appliedSeq = seq
	s.output = result
	s.hasOutput = true
	s.lastApplied = s.finishAttemptLocked(seq, AttemptResolved, endedAt, nil)

	s.logAttemptLocked(seq, log.AttemptResolved, input, latency, nil)
	s.logger.Log(log.Event{
		Timestamp:     endedAt,
		ObservationID: s.observationID,
		Category:      log.CategoryOutput,
		Seq:           seq,
		Output:        &log.OutputEvent{Value: fmt.Sprint(result), PrevSeq: prevSeq},
	})
	observers := s.copyObserversLocked()
	s.mu.Unlock()

	for _, o := range observers {
		o.OnOutputApplied(seq, input, result)
	}
}

// Value returns the stabilized output and whether any attempt has been
// applied yet.
func (s *Stabilizer[T, R]) Value() (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output, s.hasOutput
}

// Input returns the last observed input and whether any input has been
// observed yet.
func (s *Stabilizer[T, R]) Input() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input, s.hasInput
}

// LastApplied returns the attempt record behind the current output and
// whether any attempt has been applied yet.
func (s *Stabilizer[T, R]) LastApplied() (Attempt[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastApplied, s.hasOutput
}

// History returns a copy of the attempt history, oldest first. The
// history is bounded by Config.MaxHistory.
func (s *Stabilizer[T, R]) History() []Attempt[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Attempt[T], len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot is a point-in-time view of a stabilizer's bookkeeping.
type Snapshot struct {
	ObservationID string
	QuietPeriod   time.Duration
	Policy        Policy

	// NextSeq is the sequence number the next attempt will receive.
	NextSeq uint64

	// HighestStarted is the highest sequence number handed to the
	// resolver so far. Zero before the first attempt.
	HighestStarted uint64

	// AppliedSeq is the sequence number behind the current output.
	// Zero before the first application.
	AppliedSeq uint64

	// InFlight is the number of resolver invocations still running.
	InFlight int

	// TimerPending reports whether a quiet-period timer is armed.
	TimerPending bool

	// HasOutput reports whether any output has been applied.
	HasOutput bool

	// Closed reports whether the observation was torn down.
	Closed bool
}

// Snapshot returns a point-in-time view of the stabilizer's bookkeeping.
func (s *Stabilizer[T, R]) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		ObservationID:  s.observationID,
		QuietPeriod:    s.quietPeriod,
		Policy:         s.policy,
		NextSeq:        s.nextSeq,
		HighestStarted: s.highestStarted,
		AppliedSeq:     s.appliedSeq,
		InFlight:       s.inFlight,
		TimerPending:   s.timer != nil,
		HasOutput:      s.hasOutput,
		Closed:         s.closed,
	}
}

// Subscribe adds an observer for output and failure notifications.
func (s *Stabilizer[T, R]) Subscribe(o Observer[T, R]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Stabilizer[T, R]) Unsubscribe(o Observer[T, R]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Close tears the observation down: the pending timer is stopped, every
// attempt context is cancelled, and in-flight completions become
// no-ops. Close is idempotent and safe concurrently with Set and with
// resolver completions.
func (s *Stabilizer[T, R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.timerGen++

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.logger.Log(log.Event{
			Timestamp:     time.Now(),
			ObservationID: s.observationID,
			Category:      log.CategoryTimer,
			Timer:         &log.TimerEvent{Kind: log.TimerStopped, QuietPeriod: s.quietPeriod},
		})
	}

	s.cancel()

	s.logger.Log(log.Event{
		Timestamp:     time.Now(),
		ObservationID: s.observationID,
		Category:      log.CategoryObservation,
		Observation: &log.ObservationEvent{
			Kind:        log.ObservationClosed,
			QuietPeriod: s.quietPeriod,
			Policy:      s.policy.String(),
		},
	})
}

// Closed reports whether the observation was torn down.
func (s *Stabilizer[T, R]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// recordAttemptLocked appends an attempt to the history ring.
func (s *Stabilizer[T, R]) recordAttemptLocked(att Attempt[T]) {
	s.history = append(s.history, att)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// finishAttemptLocked moves a history entry to a terminal state and
// returns the updated record. Entries already evicted from the ring are
// reconstructed detached.
func (s *Stabilizer[T, R]) finishAttemptLocked(seq uint64, state AttemptState, endedAt time.Time, err error) Attempt[T] {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Seq == seq {
			s.history[i].State = state
			s.history[i].EndedAt = endedAt
			s.history[i].Err = err
			return s.history[i]
		}
	}
	return Attempt[T]{Seq: seq, State: state, EndedAt: endedAt, Err: err}
}

// logAttemptLocked logs a terminal attempt state change.
func (s *Stabilizer[T, R]) logAttemptLocked(seq uint64, state log.AttemptState, input T, latency time.Duration, err error) {
	ev := log.Event{
		Timestamp:     time.Now(),
		ObservationID: s.observationID,
		Category:      log.CategoryAttempt,
		Seq:           seq,
		Attempt: &log.AttemptEvent{
			State:   state,
			Input:   fmt.Sprint(input),
			Latency: &latency,
		},
	}
	if err != nil {
		ev.Attempt.Error = err.Error()
	}
	s.logger.Log(ev)
}

// copyObserversLocked copies the observer slice for notification
// outside the lock.
func (s *Stabilizer[T, R]) copyObserversLocked() []Observer[T, R] {
	observers := make([]Observer[T, R], len(s.observers))
	copy(observers, s.observers)
	return observers
}
