// Package scope provides context keys for propagating observation identity
// and configuration through context.Context. Resolver functions receive a
// context stamped with the observation ID and attempt sequence number, and
// callers can thread a default quiet period to Observe without touching
// every call site. This package exists as a neutral dependency that both
// pkg/settle and resolver implementations can import without creating an
// import cycle.
package scope

import (
	"context"
	"time"
)

type observationIDKey struct{}

// ContextWithObservationID returns a new context with the observation ID.
func ContextWithObservationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, observationIDKey{}, id)
}

// ObservationIDFromContext extracts the observation ID from the context.
// Returns empty string if not set.
func ObservationIDFromContext(ctx context.Context) string {
	if v := ctx.Value(observationIDKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type attemptSeqKey struct{}

// ContextWithAttemptSeq returns a new context with the resolution attempt
// sequence number.
func ContextWithAttemptSeq(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, attemptSeqKey{}, seq)
}

// AttemptSeqFromContext extracts the attempt sequence number from the context.
// Returns 0 if not set.
func AttemptSeqFromContext(ctx context.Context) uint64 {
	if v := ctx.Value(attemptSeqKey{}); v != nil {
		if seq, ok := v.(uint64); ok {
			return seq
		}
	}
	return 0
}

type quietPeriodKey struct{}

// ContextWithQuietPeriod returns a new context carrying a default quiet
// period for observations created from it.
func ContextWithQuietPeriod(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, quietPeriodKey{}, d)
}

// QuietPeriodFromContext extracts the default quiet period from the context.
// Returns 0 if not set.
func QuietPeriodFromContext(ctx context.Context) time.Duration {
	if v := ctx.Value(quietPeriodKey{}); v != nil {
		if d, ok := v.(time.Duration); ok {
			return d
		}
	}
	return 0
}
