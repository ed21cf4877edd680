package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	// Should not panic with any event type
	event := Event{
		Timestamp:     time.Now(),
		ObservationID: "test-obs",
		Category:      CategoryInput,
	}

	// Test with nil payloads
	logger.Log(event)

	// Test with input payload
	event.Input = &InputEvent{Value: "abc"}
	logger.Log(event)

	// Test with timer payload
	event.Input = nil
	event.Timer = &TimerEvent{Kind: TimerArmed, QuietPeriod: time.Second}
	logger.Log(event)

	// Test with attempt payload
	event.Timer = nil
	event.Attempt = &AttemptEvent{State: AttemptPending, Input: "abc"}
	logger.Log(event)

	// Test with output payload
	event.Attempt = nil
	event.Output = &OutputEvent{Value: "result"}
	logger.Log(event)

	// Test with failure payload
	event.Output = nil
	event.Failure = &FailureEvent{Input: "abc", Message: "test error"}
	logger.Log(event)

	// Test with observation payload
	event.Failure = nil
	event.Observation = &ObservationEvent{Kind: ObservationStarted}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that NoopLogger satisfies Logger interface
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
}
