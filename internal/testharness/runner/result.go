package runner

import (
	"time"

	"github.com/settle-reactive/settle-go/internal/testharness/loader"
)

// ScenarioResult represents the outcome of a single scenario.
type ScenarioResult struct {
	// Scenario is the scenario that was executed.
	Scenario *loader.Scenario

	// Passed indicates if every expectation held.
	Passed bool

	// Skipped indicates if the scenario was skipped.
	Skipped bool

	// SkipReason explains why the scenario was skipped.
	SkipReason string

	// Failures describes each expectation that did not hold.
	Failures []string

	// Duration is how long the scenario took.
	Duration time.Duration

	// StartTime when the scenario started.
	StartTime time.Time

	// EndTime when the scenario finished.
	EndTime time.Time
}

// SuiteResult represents the outcome of running a set of scenarios.
type SuiteResult struct {
	// Results contains results for each scenario.
	Results []*ScenarioResult

	// PassCount is the number of passed scenarios.
	PassCount int

	// FailCount is the number of failed scenarios.
	FailCount int

	// SkipCount is the number of skipped scenarios.
	SkipCount int

	// Duration is the total time for all scenarios.
	Duration time.Duration
}
