package settle_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/settle-reactive/settle-go/internal/testharness/loader"
	"github.com/settle-reactive/settle-go/internal/testharness/runner"
	"github.com/settle-reactive/settle-go/internal/testutil"
	"github.com/settle-reactive/settle-go/pkg/cell"
	"github.com/settle-reactive/settle-go/pkg/examples"
	"github.com/settle-reactive/settle-go/pkg/log"
	"github.com/settle-reactive/settle-go/pkg/settle"
)

func ms(n int) time.Duration {
	return testutil.ScaledMs(n)
}

func waitUntil(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", d)
}

// TestE2E_SignalToOutput runs the full pipeline: a signal feeds an
// observation, rapid edits collapse into one resolution, and the
// capture logger records the whole lifecycle.
func TestE2E_SignalToOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	capture := log.NewCaptureLogger()
	sig := cell.NewSignal("")

	resolver := func(ctx context.Context, input string) (string, error) {
		return strings.ToUpper(input), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, stop, err := settle.Observe(ctx, sig, resolver, settle.Config{
		QuietPeriod: ms(40),
		Logger:      capture,
	})
	if err != nil {
		t.Fatalf("Failed to start observation: %v", err)
	}
	defer stop()

	// Rapid edits within the quiet period collapse into one attempt.
	sig.Set("h")
	time.Sleep(ms(5))
	sig.Set("he")
	time.Sleep(ms(5))
	sig.Set("hello")

	waitUntil(t, ms(500), func() bool {
		out, ok := st.Value()
		return ok && out == "HELLO"
	})

	snap := st.Snapshot()
	if snap.AppliedSeq != 1 {
		t.Errorf("Expected a single resolution, applied seq %d", snap.AppliedSeq)
	}

	// The capture must show the lifecycle: start, inputs, timer
	// activity, one attempt, one output.
	started := capture.EventsByCategory(log.CategoryObservation)
	if len(started) == 0 || started[0].Observation.Kind != log.ObservationStarted {
		t.Error("Missing observation started event")
	}
	if len(capture.EventsByCategory(log.CategoryInput)) < 3 {
		t.Error("Missing input events")
	}
	outputs := capture.EventsByCategory(log.CategoryOutput)
	if len(outputs) != 1 {
		t.Fatalf("Expected 1 output event, got %d", len(outputs))
	}
	if outputs[0].Output.Value != "HELLO" {
		t.Errorf("Output event value = %q, want HELLO", outputs[0].Output.Value)
	}

	// Observe seeds the stabilizer with the signal's current value, so
	// the timer arms once for the seed and restarts for each edit.
	restarted := 0
	for _, ev := range capture.EventsByCategory(log.CategoryTimer) {
		if ev.Timer.Kind == log.TimerRestarted {
			restarted++
		}
	}
	if restarted != 3 {
		t.Errorf("Expected 3 timer restarts, got %d", restarted)
	}
}

// TestE2E_FileLogRoundTrip writes events through a file logger and
// reads them back with a filtered reader.
func TestE2E_FileLogRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "events.sevt")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}

	resolver := func(ctx context.Context, input string) (string, error) {
		return input + "!", nil
	}

	st, err := settle.NewStabilizerWithConfig(resolver, settle.Config{
		QuietPeriod:   ms(20),
		Logger:        logger,
		ObservationID: "roundtrip-test",
	})
	if err != nil {
		t.Fatalf("Failed to create stabilizer: %v", err)
	}

	st.Set("one")
	waitUntil(t, ms(500), func() bool {
		_, ok := st.Value()
		return ok
	})
	st.Set("two")
	waitUntil(t, ms(500), func() bool {
		out, _ := st.Value()
		return out == "two!"
	})
	st.Close()

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	// Read back only the outputs.
	cat := log.CategoryOutput
	reader, err := log.NewFilteredReader(path, log.Filter{Category: &cat})
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer reader.Close()

	var values []string
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read event: %v", err)
		}
		if ev.ObservationID != "roundtrip-test" {
			t.Errorf("Unexpected observation ID %q", ev.ObservationID)
		}
		values = append(values, ev.Output.Value)
	}

	if len(values) != 2 || values[0] != "one!" || values[1] != "two!" {
		t.Errorf("Round-tripped outputs = %v, want [one! two!]", values)
	}
}

// TestE2E_SingleFlightSupersede verifies that under single-flight a
// newer change cancels the in-flight attempt and only the newest
// result lands.
func TestE2E_SingleFlightSupersede(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	var mu sync.Mutex
	var cancelled []string

	resolver := func(ctx context.Context, input string) (string, error) {
		select {
		case <-time.After(ms(60)):
			return input + "-resolved", nil
		case <-ctx.Done():
			mu.Lock()
			cancelled = append(cancelled, input)
			mu.Unlock()
			return "", ctx.Err()
		}
	}

	st, err := settle.NewStabilizerWithConfig(resolver, settle.Config{
		QuietPeriod: ms(10),
		Policy:      settle.PolicySingleFlight,
	})
	if err != nil {
		t.Fatalf("Failed to create stabilizer: %v", err)
	}
	defer st.Close()

	st.Set("first")
	waitUntil(t, ms(500), func() bool {
		return st.Snapshot().InFlight > 0
	})

	// Second change while the first attempt is still resolving.
	st.Set("second")

	waitUntil(t, ms(1000), func() bool {
		out, ok := st.Value()
		return ok && out == "second-resolved"
	})

	mu.Lock()
	defer mu.Unlock()
	if len(cancelled) != 1 || cancelled[0] != "first" {
		t.Errorf("Cancelled attempts = %v, want [first]", cancelled)
	}

	la, ok := st.LastApplied()
	if !ok || la.Input != "second" {
		t.Errorf("Last applied input = %q, want second", la.Input)
	}
}

// TestE2E_FailureRetainsOutput verifies that a failed resolution
// surfaces to observers but leaves the previous output in place.
func TestE2E_FailureRetainsOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	inner := func(ctx context.Context, input string) (string, error) {
		return input, nil
	}
	// Second invocation fails.
	resolver := examples.Flaky(inner, 2)

	st, err := settle.NewStabilizer(resolver, ms(10))
	if err != nil {
		t.Fatalf("Failed to create stabilizer: %v", err)
	}
	defer st.Close()

	var mu sync.Mutex
	var failedSeq uint64
	var failedErr error
	st.Subscribe(&settle.ObserverFuncs[string, string]{
		Failed: func(seq uint64, input string, err error) {
			mu.Lock()
			failedSeq, failedErr = seq, err
			mu.Unlock()
		},
	})

	st.Set("stable")
	waitUntil(t, ms(500), func() bool {
		_, ok := st.Value()
		return ok
	})

	st.Set("broken")
	waitUntil(t, ms(500), func() bool {
		mu.Lock()
		defer mu.Unlock()
		return failedErr != nil
	})

	mu.Lock()
	if failedSeq != 2 {
		t.Errorf("Failed seq = %d, want 2", failedSeq)
	}
	if !errors.Is(failedErr, examples.ErrInjectedFailure) {
		t.Errorf("Failure error = %v, want injected failure", failedErr)
	}
	mu.Unlock()

	out, ok := st.Value()
	if !ok || out != "stable" {
		t.Errorf("Output after failure = %q, want retained %q", out, "stable")
	}
}

// TestE2E_ScenarioHarness drives the YAML harness end to end: parse a
// scenario, run it on a real clock, check the suite result.
func TestE2E_ScenarioHarness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	scenarioYAML := `
id: SC-E2E-001
name: Debounce collapses rapid edits
quiet_period_ms: 40
resolver:
  results:
    hello: HELLO
steps:
  - at_ms: 0
    set: h
  - at_ms: 10
    set: he
  - at_ms: 20
    set: hello
settle_ms: 500
final:
  output: HELLO
`

	sc, err := loader.ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("Failed to parse scenario: %v", err)
	}

	capture := log.NewCaptureLogger()
	r := runner.NewWithConfig(&runner.Config{
		DefaultSettle: time.Second,
		Logger:        capture,
	})

	result := r.RunSuite(context.Background(), []*loader.Scenario{sc})

	if result.FailCount != 0 {
		for _, sr := range result.Results {
			for _, f := range sr.Failures {
				t.Logf("failure: %s", f)
			}
		}
		t.Fatalf("Suite failed: %d failures", result.FailCount)
	}
	if result.PassCount != 1 {
		t.Errorf("PassCount = %d, want 1", result.PassCount)
	}

	// Runner events carry the scenario ID as the observation ID.
	outputs := capture.EventsByCategory(log.CategoryOutput)
	if len(outputs) != 1 {
		t.Fatalf("Expected 1 output event, got %d", len(outputs))
	}
	if outputs[0].ObservationID != "SC-E2E-001" {
		t.Errorf("Observation ID = %q, want SC-E2E-001", outputs[0].ObservationID)
	}
}

// TestE2E_CloseIsIdempotent closes an observation while an attempt is
// in flight and verifies teardown is clean and repeatable.
func TestE2E_CloseIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	resolver := func(ctx context.Context, input string) (string, error) {
		select {
		case <-time.After(ms(200)):
			return input, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	st, err := settle.NewStabilizer(resolver, ms(10))
	if err != nil {
		t.Fatalf("Failed to create stabilizer: %v", err)
	}

	st.Set("doomed")
	waitUntil(t, ms(500), func() bool {
		return st.Snapshot().InFlight > 0
	})

	st.Close()
	st.Close()

	if !st.Closed() {
		t.Error("Stabilizer should report closed")
	}
	if _, ok := st.Value(); ok {
		t.Error("No output should have been applied")
	}

	// Set after close is a no-op.
	before := st.Snapshot()
	st.Set("late")
	after := st.Snapshot()
	if after.NextSeq != before.NextSeq || after.TimerPending {
		t.Error("Set after close should not schedule anything")
	}
	if in, _ := st.Input(); in != "doomed" {
		t.Errorf("Input after close = %q, want doomed", in)
	}
}
