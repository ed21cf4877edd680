// Package loader provides YAML scenario loading for the settle test harness.
package loader

import "time"

// Scenario represents a single timing scenario loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "SC-QUIET-001").
	ID string `yaml:"id"`

	// Name is a human-readable name for the scenario.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Requires is the harness version this scenario targets (e.g., "1.0").
	// Loading fails when the running harness is not compatible.
	Requires string `yaml:"requires,omitempty"`

	// QuietPeriodMS is the stabilizer quiet period in milliseconds.
	// Zero means every input change resolves immediately.
	QuietPeriodMS int `yaml:"quiet_period_ms"`

	// Policy selects how overlapping resolutions behave
	// ("concurrent" or "single-flight"). Empty means concurrent.
	Policy string `yaml:"policy,omitempty"`

	// MaxHistory bounds the stabilizer's attempt history (0 = default).
	MaxHistory int `yaml:"max_history,omitempty"`

	// Resolver scripts the resolver's behavior per input.
	Resolver ResolverScript `yaml:"resolver,omitempty"`

	// Steps are the timed actions to execute in order.
	Steps []Step `yaml:"steps"`

	// SettleMS is how long after the last step the runner waits for the
	// stabilizer to go quiet before checking Final (0 = runner default).
	SettleMS int `yaml:"settle_ms,omitempty"`

	// Final holds expectations checked after the settle window.
	Final *Expectation `yaml:"final,omitempty"`

	// Skip marks the scenario as skipped.
	Skip bool `yaml:"skip,omitempty"`

	// SkipReason explains why the scenario is skipped.
	SkipReason string `yaml:"skip_reason,omitempty"`

	// Tags for categorizing scenarios.
	Tags []string `yaml:"tags,omitempty"`
}

// QuietPeriod returns the quiet period as a duration.
func (s *Scenario) QuietPeriod() time.Duration {
	return time.Duration(s.QuietPeriodMS) * time.Millisecond
}

// Settle returns the settle window as a duration (0 when unset).
func (s *Scenario) Settle() time.Duration {
	return time.Duration(s.SettleMS) * time.Millisecond
}

// ResolverScript describes the scripted resolver driving a scenario.
// Inputs without a scripted result resolve to themselves.
type ResolverScript struct {
	// DefaultLatencyMS delays every resolution (milliseconds).
	DefaultLatencyMS int `yaml:"default_latency_ms,omitempty"`

	// Results maps inputs to resolved values.
	Results map[string]string `yaml:"results,omitempty"`

	// Failures maps inputs to failure messages.
	Failures map[string]string `yaml:"failures,omitempty"`

	// LatenciesMS maps inputs to per-input latencies, overriding the
	// default (milliseconds).
	LatenciesMS map[string]int `yaml:"latencies_ms,omitempty"`
}

// DefaultLatency returns the default latency as a duration.
func (r *ResolverScript) DefaultLatency() time.Duration {
	return time.Duration(r.DefaultLatencyMS) * time.Millisecond
}

// Step represents a single timed action in a scenario.
type Step struct {
	// AtMS is when this step runs, in milliseconds from scenario start.
	// Steps must be ordered by non-decreasing AtMS.
	AtMS int `yaml:"at_ms"`

	// Set feeds a new input value to the stabilizer.
	Set *string `yaml:"set,omitempty"`

	// Close tears the stabilizer down.
	Close bool `yaml:"close,omitempty"`

	// Expect holds expectations checked right after this step's action.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// At returns the step offset as a duration.
func (s *Step) At() time.Duration {
	return time.Duration(s.AtMS) * time.Millisecond
}

// Expectation describes the observable state to check. Nil fields are
// not checked.
type Expectation struct {
	// Output is the expected applied output value.
	Output *string `yaml:"output,omitempty"`

	// HasOutput is whether any output has been applied.
	HasOutput *bool `yaml:"has_output,omitempty"`

	// AppliedSeq is the sequence number of the last applied attempt.
	AppliedSeq *uint64 `yaml:"applied_seq,omitempty"`

	// Applications is the total number of applied outputs observed.
	Applications *int `yaml:"applications,omitempty"`

	// Failures is the total number of surfaced resolution failures.
	Failures *int `yaml:"failures,omitempty"`

	// ResolverCalls is the total number of resolver invocations.
	ResolverCalls *int `yaml:"resolver_calls,omitempty"`

	// ResolverInputs is the exact sequence of inputs the resolver saw.
	ResolverInputs []string `yaml:"resolver_inputs,omitempty"`

	// Closed is whether the observation has been torn down.
	Closed *bool `yaml:"closed,omitempty"`
}

// Empty reports whether no fields are set.
func (e *Expectation) Empty() bool {
	return e.Output == nil && e.HasOutput == nil && e.AppliedSeq == nil &&
		e.Applications == nil && e.Failures == nil && e.ResolverCalls == nil &&
		e.ResolverInputs == nil && e.Closed == nil
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return e.File + ": " + e.Message
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
