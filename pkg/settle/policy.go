package settle

import (
	"fmt"
	"strings"
)

// Policy controls how overlapping resolver invocations are handled.
//
// Overlap happens when the input changes faster than the resolver
// completes: a new attempt starts while an older one is still running.
// Under either policy only the newest attempt's result can apply;
// the policies differ in whether the older invocation keeps running.
type Policy uint8

const (
	// PolicyConcurrent lets overlapping resolver invocations run to
	// completion. Sequence-number recency decides which result applies.
	PolicyConcurrent Policy = iota

	// PolicySingleFlight cancels the previous attempt's context when a
	// new attempt starts, so at most one invocation is active at a time.
	PolicySingleFlight
)

// String returns a human-readable policy name.
func (p Policy) String() string {
	switch p {
	case PolicyConcurrent:
		return "CONCURRENT"
	case PolicySingleFlight:
		return "SINGLE_FLIGHT"
	default:
		return "UNKNOWN"
	}
}

// ParsePolicy parses a policy name, case-insensitively.
// Accepted values: "concurrent", "single-flight" (also "singleflight"
// and "single_flight").
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "concurrent":
		return PolicyConcurrent, nil
	case "single-flight", "singleflight", "single_flight":
		return PolicySingleFlight, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}
