package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settle-reactive/settle-go/internal/testharness/loader"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func seqPtr(n uint64) *uint64 { return &n }

// coalesceScenario is a known-good scenario used by several tests.
func coalesceScenario() *loader.Scenario {
	return &loader.Scenario{
		ID:            "SC-RUN-001",
		Name:          "coalesce",
		QuietPeriodMS: 150,
		Resolver: loader.ResolverScript{
			Results: map[string]string{"abc": "ABC"},
		},
		Steps: []loader.Step{
			{AtMS: 0, Set: strPtr("a")},
			{AtMS: 50, Set: strPtr("ab")},
			{AtMS: 100, Set: strPtr("abc")},
		},
		SettleMS: 600,
		Final: &loader.Expectation{
			ResolverCalls:  intPtr(1),
			ResolverInputs: []string{"abc"},
			Output:         strPtr("ABC"),
			AppliedSeq:     seqPtr(1),
			Applications:   intPtr(1),
			Failures:       intPtr(0),
		},
	}
}

func TestRun_CoalesceScenario(t *testing.T) {
	r := New()

	result := r.Run(context.Background(), coalesceScenario())

	require.NotNil(t, result)
	assert.True(t, result.Passed, "failures: %v", result.Failures)
	assert.Empty(t, result.Failures)
	assert.False(t, result.Skipped)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestRun_ExpectationFailureReported(t *testing.T) {
	sc := coalesceScenario()
	sc.Final = &loader.Expectation{Output: strPtr("WRONG")}

	result := New().Run(context.Background(), sc)

	assert.False(t, result.Passed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "final: output:")
	assert.Contains(t, result.Failures[0], `"WRONG"`)
}

func TestRun_ResolverInputsDiffReported(t *testing.T) {
	sc := coalesceScenario()
	sc.Final = &loader.Expectation{ResolverInputs: []string{"a", "ab", "abc"}}

	result := New().Run(context.Background(), sc)

	assert.False(t, result.Passed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "resolver_inputs mismatch")
	assert.Contains(t, result.Failures[0], "-want +got")
}

func TestRun_SkippedScenario(t *testing.T) {
	sc := coalesceScenario()
	sc.Skip = true
	sc.SkipReason = "timing not reproducible here"

	result := New().Run(context.Background(), sc)

	assert.True(t, result.Skipped)
	assert.False(t, result.Passed)
	assert.Equal(t, "timing not reproducible here", result.SkipReason)

	sc.SkipReason = ""
	result = New().Run(context.Background(), sc)
	assert.Equal(t, "skipped by scenario definition", result.SkipReason)
}

func TestRun_InvalidPolicyFails(t *testing.T) {
	sc := coalesceScenario()
	sc.Policy = "bogus"

	result := New().Run(context.Background(), sc)

	assert.False(t, result.Passed)
	require.NotEmpty(t, result.Failures)
	assert.Contains(t, result.Failures[0], "unknown policy")
}

func TestRun_StepExpectationStopsScenario(t *testing.T) {
	sc := &loader.Scenario{
		ID:            "SC-RUN-002",
		QuietPeriodMS: 0,
		Steps: []loader.Step{
			{AtMS: 0, Set: strPtr("a")},
			{AtMS: 150, Expect: &loader.Expectation{ResolverCalls: intPtr(99)}},
			{AtMS: 300, Set: strPtr("b")},
		},
		Final: &loader.Expectation{ResolverCalls: intPtr(2)},
	}

	result := New().Run(context.Background(), sc)

	assert.False(t, result.Passed)
	require.Len(t, result.Failures, 1)
	assert.True(t, strings.HasPrefix(result.Failures[0], "step 1:"), "got %q", result.Failures[0])
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &loader.Scenario{
		ID:            "SC-RUN-003",
		QuietPeriodMS: 0,
		Steps: []loader.Step{
			{AtMS: 500, Set: strPtr("a")},
		},
	}

	start := time.Now()
	result := New().Run(ctx, sc)

	assert.False(t, result.Passed)
	require.NotEmpty(t, result.Failures)
	assert.Contains(t, result.Failures[0], "context canceled")
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestRunSuite_Counts(t *testing.T) {
	pass := coalesceScenario()

	fail := coalesceScenario()
	fail.ID = "SC-RUN-FAIL"
	fail.Final = &loader.Expectation{ResolverCalls: intPtr(99)}

	skip := coalesceScenario()
	skip.ID = "SC-RUN-SKIP"
	skip.Skip = true

	var completed []string
	r := NewWithConfig(&Config{
		OnScenarioComplete: func(res *ScenarioResult) {
			completed = append(completed, res.Scenario.ID)
		},
	})

	suite := r.RunSuite(context.Background(), []*loader.Scenario{pass, fail, skip})

	assert.Equal(t, 1, suite.PassCount)
	assert.Equal(t, 1, suite.FailCount)
	assert.Equal(t, 1, suite.SkipCount)
	assert.Len(t, suite.Results, 3)
	assert.Equal(t, []string{"SC-RUN-001", "SC-RUN-FAIL", "SC-RUN-SKIP"}, completed)
	assert.Greater(t, suite.Duration, time.Duration(0))
}

func TestRunSuite_StopOnFirstFailure(t *testing.T) {
	fail := coalesceScenario()
	fail.Final = &loader.Expectation{ResolverCalls: intPtr(99)}

	never := coalesceScenario()
	never.ID = "SC-RUN-NEVER"

	r := NewWithConfig(&Config{StopOnFirstFailure: true})
	suite := r.RunSuite(context.Background(), []*loader.Scenario{fail, never})

	assert.Equal(t, 1, suite.FailCount)
	assert.Equal(t, 0, suite.PassCount)
	assert.Len(t, suite.Results, 1)
}

func TestRunSuite_ContextCancelledStopsSuite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite := New().RunSuite(ctx, []*loader.Scenario{coalesceScenario()})

	assert.Empty(t, suite.Results)
}

func TestNewWithConfig_Defaults(t *testing.T) {
	r := NewWithConfig(nil)
	assert.Equal(t, time.Second, r.config.DefaultSettle)

	r = NewWithConfig(&Config{})
	assert.Equal(t, time.Second, r.config.DefaultSettle)

	r = NewWithConfig(&Config{DefaultSettle: 2 * time.Second})
	assert.Equal(t, 2*time.Second, r.config.DefaultSettle)
}

// TestScenarioFiles runs every scenario shipped under testdata. These
// cover the library's timing and ordering guarantees end to end.
func TestScenarioFiles(t *testing.T) {
	scenarios, err := loader.LoadDirectory("testdata")
	require.NoError(t, err)
	require.Len(t, scenarios, 10)

	suite := New().RunSuite(context.Background(), scenarios)

	for _, res := range suite.Results {
		if !res.Passed && !res.Skipped {
			t.Errorf("scenario %s (%s) failed:", res.Scenario.ID, res.Scenario.Name)
			for _, msg := range res.Failures {
				t.Errorf("  %s", msg)
			}
		}
	}
	assert.Equal(t, len(scenarios), suite.PassCount)
	assert.Zero(t, suite.FailCount)
	assert.Zero(t, suite.SkipCount)
}
