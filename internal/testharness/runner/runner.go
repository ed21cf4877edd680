// Package runner executes timing scenarios against real stabilizers.
//
// Scenarios run on a real clock: steps are scheduled at their offsets,
// the scripted resolver applies its latencies, and expectations are
// checked against the live stabilizer. All scenario durations are
// scaled with testutil.Scaled, so suites can be slowed down on loaded
// machines via SETTLE_TEST_TIME_SCALE.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/settle-reactive/settle-go/internal/testharness/loader"
	"github.com/settle-reactive/settle-go/internal/testutil"
	"github.com/settle-reactive/settle-go/pkg/examples"
	"github.com/settle-reactive/settle-go/pkg/log"
	"github.com/settle-reactive/settle-go/pkg/settle"
)

// Runner executes scenarios against real stabilizers.
type Runner struct {
	config *Config
}

// Config configures the scenario runner.
type Config struct {
	// DefaultSettle is the settle window for scenarios that do not set
	// settle_ms.
	DefaultSettle time.Duration

	// StopOnFirstFailure stops a suite after the first failed scenario.
	StopOnFirstFailure bool

	// OnScenarioComplete is called after each scenario in a suite.
	OnScenarioComplete func(*ScenarioResult)

	// Logger receives stabilizer events from every scenario run.
	Logger log.Logger
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultSettle: time.Second,
	}
}

// New creates a runner with default configuration.
func New() *Runner {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a runner with the given configuration.
func NewWithConfig(config *Config) *Runner {
	cfg := DefaultConfig()
	if config != nil {
		*cfg = *config
	}
	if cfg.DefaultSettle <= 0 {
		cfg.DefaultSettle = time.Second
	}
	return &Runner{config: cfg}
}

// Run executes a single scenario.
func (r *Runner) Run(ctx context.Context, sc *loader.Scenario) *ScenarioResult {
	result := &ScenarioResult{
		Scenario:  sc,
		StartTime: time.Now(),
	}
	defer func() {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
	}()

	if sc.Skip {
		result.Skipped = true
		result.SkipReason = sc.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by scenario definition"
		}
		return result
	}

	script := buildScript(&sc.Resolver)

	policy := settle.PolicyConcurrent
	if sc.Policy != "" {
		p, err := settle.ParsePolicy(sc.Policy)
		if err != nil {
			result.Failures = append(result.Failures, err.Error())
			return result
		}
		policy = p
	}

	st, err := settle.NewStabilizerWithConfig(script.Resolve, settle.Config{
		QuietPeriod:   testutil.Scaled(sc.QuietPeriod()),
		Policy:        policy,
		MaxHistory:    sc.MaxHistory,
		Logger:        r.config.Logger,
		ObservationID: sc.ID,
	})
	if err != nil {
		result.Failures = append(result.Failures, fmt.Sprintf("creating stabilizer: %v", err))
		return result
	}
	defer st.Close()

	rec := &recording{}
	st.Subscribe(rec)

	start := time.Now()
	for i := range sc.Steps {
		step := &sc.Steps[i]
		if err := sleepUntil(ctx, start.Add(testutil.Scaled(step.At()))); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("step %d: %v", i, err))
			return result
		}

		if step.Set != nil {
			st.Set(*step.Set)
		}
		if step.Close {
			st.Close()
		}
		if step.Expect != nil {
			for _, msg := range checkExpectation(step.Expect, st, script, rec) {
				result.Failures = append(result.Failures, fmt.Sprintf("step %d: %s", i, msg))
			}
			if len(result.Failures) > 0 {
				return result
			}
		}
	}

	if sc.Final != nil {
		settleWindow := r.config.DefaultSettle
		if sc.SettleMS > 0 {
			settleWindow = sc.Settle()
		}
		if err := awaitQuiescence(ctx, st, testutil.Scaled(settleWindow)); err != nil {
			result.Failures = append(result.Failures, err.Error())
			return result
		}
		for _, msg := range checkExpectation(sc.Final, st, script, rec) {
			result.Failures = append(result.Failures, "final: "+msg)
		}
	}

	result.Passed = len(result.Failures) == 0
	return result
}

// RunSuite executes all scenarios in order.
func (r *Runner) RunSuite(ctx context.Context, scenarios []*loader.Scenario) *SuiteResult {
	result := &SuiteResult{}

	startTime := time.Now()
	defer func() { result.Duration = time.Since(startTime) }()

	for _, sc := range scenarios {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		scenarioResult := r.Run(ctx, sc)
		result.Results = append(result.Results, scenarioResult)

		if scenarioResult.Skipped {
			result.SkipCount++
		} else if scenarioResult.Passed {
			result.PassCount++
		} else {
			result.FailCount++
		}

		if r.config.OnScenarioComplete != nil {
			r.config.OnScenarioComplete(scenarioResult)
		}

		if !scenarioResult.Passed && !scenarioResult.Skipped && r.config.StopOnFirstFailure {
			break
		}
	}

	return result
}

func buildScript(rs *loader.ResolverScript) *examples.Scripted {
	script := examples.NewScripted()
	script.SetDefaultLatency(testutil.Scaled(rs.DefaultLatency()))
	for input, result := range rs.Results {
		script.SetResult(input, result)
	}
	for input, message := range rs.Failures {
		script.SetFailure(input, errors.New(message))
	}
	for input, ms := range rs.LatenciesMS {
		script.SetLatency(input, testutil.Scaled(time.Duration(ms)*time.Millisecond))
	}
	return script
}

func sleepUntil(ctx context.Context, deadline time.Time) error {
	wait := time.Until(deadline)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitQuiescence waits until the stabilizer has no pending timer and no
// in-flight attempt, bounded by the settle window. Reaching the bound is
// not an error: expectations are checked against whatever state the
// scenario ended in.
func awaitQuiescence(ctx context.Context, st *settle.Stabilizer[string, string], window time.Duration) error {
	deadline := time.Now().Add(window)
	for {
		snap := st.Snapshot()
		if snap.Closed || (!snap.TimerPending && snap.InFlight == 0) {
			return nil
		}
		if time.Now().After(deadline) {
			return nil
		}
		select {
		case <-time.After(2 * time.Millisecond):
		case <-ctx.Done():
			return fmt.Errorf("settle wait: %w", ctx.Err())
		}
	}
}
