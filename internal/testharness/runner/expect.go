package runner

import (
	"fmt"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/settle-reactive/settle-go/internal/testharness/loader"
	"github.com/settle-reactive/settle-go/pkg/examples"
	"github.com/settle-reactive/settle-go/pkg/settle"
)

// recording collects observer callbacks for expectation checks.
type recording struct {
	mu           sync.Mutex
	applications []application
	failures     []failure
}

type application struct {
	seq    uint64
	input  string
	result string
}

type failure struct {
	seq   uint64
	input string
	err   error
}

func (r *recording) OnOutputApplied(seq uint64, input, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications = append(r.applications, application{seq: seq, input: input, result: result})
}

func (r *recording) OnResolutionFailed(seq uint64, input string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure{seq: seq, input: input, err: err})
}

func (r *recording) counts() (applications, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applications), len(r.failures)
}

// checkExpectation evaluates every set field of an expectation and
// returns one message per field that did not hold.
func checkExpectation(exp *loader.Expectation, st *settle.Stabilizer[string, string], script *examples.Scripted, rec *recording) []string {
	var failures []string

	value, hasOutput := st.Value()

	if exp.Output != nil {
		if !hasOutput {
			failures = append(failures, fmt.Sprintf("output: expected %q, none applied", *exp.Output))
		} else if value != *exp.Output {
			failures = append(failures, fmt.Sprintf("output: expected %q, got %q", *exp.Output, value))
		}
	}

	if exp.HasOutput != nil && hasOutput != *exp.HasOutput {
		failures = append(failures, fmt.Sprintf("has_output: expected %v, got %v", *exp.HasOutput, hasOutput))
	}

	if exp.AppliedSeq != nil {
		applied, ok := st.LastApplied()
		if !ok {
			failures = append(failures, fmt.Sprintf("applied_seq: expected %d, none applied", *exp.AppliedSeq))
		} else if applied.Seq != *exp.AppliedSeq {
			failures = append(failures, fmt.Sprintf("applied_seq: expected %d, got %d", *exp.AppliedSeq, applied.Seq))
		}
	}

	applications, surfacedFailures := rec.counts()
	if exp.Applications != nil && applications != *exp.Applications {
		failures = append(failures, fmt.Sprintf("applications: expected %d, got %d", *exp.Applications, applications))
	}
	if exp.Failures != nil && surfacedFailures != *exp.Failures {
		failures = append(failures, fmt.Sprintf("failures: expected %d, got %d", *exp.Failures, surfacedFailures))
	}

	if exp.ResolverCalls != nil && script.CallCount() != *exp.ResolverCalls {
		failures = append(failures, fmt.Sprintf("resolver_calls: expected %d, got %d", *exp.ResolverCalls, script.CallCount()))
	}

	if exp.ResolverInputs != nil {
		if diff := cmp.Diff(exp.ResolverInputs, script.Inputs(), cmpopts.EquateEmpty()); diff != "" {
			failures = append(failures, "resolver_inputs mismatch (-want +got):\n"+diff)
		}
	}

	if exp.Closed != nil && st.Closed() != *exp.Closed {
		failures = append(failures, fmt.Sprintf("closed: expected %v, got %v", *exp.Closed, st.Closed()))
	}

	return failures
}
